// ABOUTME: CLI commands for viewing and editing the config file.
// ABOUTME: Shows effective settings and writes keys with validation.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit configuration",
	Long: `Show the effective configuration, or edit the config file.

The effective value of a key comes from VITALS_* variables first, then .env,
then the config file. 'set' and 'unset' only touch the file.

KEYS:

  backend        sqlite, badger or charm
  data_dir       data directory (default ~/.local/share/vitals)
  provider       mock, inject or live
  mock_latency   delay added to mock fetches, e.g. 200ms
  log_level      debug, info, warn, error or disabled
  log_format     console or json

EXAMPLES:

  vitals config                     # Show effective settings
  vitals config set provider live   # Persist a setting
  vitals config unset provider      # Back to the default`,
	Annotations: map[string]string{annotationSetup: setupNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)

		fmt.Fprintln(out, faint.Sprint(config.GetConfigPath()))
		effective := map[string]string{
			"backend":      cfg.GetBackend(),
			"data_dir":     cfg.GetDataDir(),
			"provider":     string(cfg.GetProvider()),
			"mock_latency": cfg.MockLatency,
			"log_level":    cfg.LogLevel,
			"log_format":   cfg.LogFormat,
		}
		for _, key := range config.Keys {
			v := effective[key]
			if v == "" {
				v = faint.Sprint("(default)")
			}
			fmt.Fprintf(out, "  %s %s\n", padRight(key, 14), v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Write a key to the config file",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationSetup: setupNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig(cmd, args[0], args[1])
	},
}

var configUnsetCmd = &cobra.Command{
	Use:         "unset <key>",
	Short:       "Remove a key from the config file",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationSetup: setupNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfig(cmd, args[0], "")
	},
}

// editConfig sets key in the file config, ignoring environment overrides.
func editConfig(cmd *cobra.Command, key, value string) error {
	fileCfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := fileCfg.Set(key, value); err != nil {
		return err
	}
	if err := fileCfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Unset %s", key))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Set %s = %s", key, value))
	}
	return nil
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
