// ABOUTME: CLI commands for exporting and importing stored samples.
// ABOUTME: Supports JSON (backup/restore) and YAML export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored samples",
	Long: `Export every sample in the configured store.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export grouped by metric type (human-readable)

OPTIONS:

  --format, -f   json (default) or yaml
  --output, -o   Write to file instead of stdout

EXAMPLES:

  vitals export                        # Export all data as JSON
  vitals export -o backup.json         # Save to file
  vitals export --format yaml          # Export as YAML`,
	Annotations: map[string]string{annotationSetup: setupStore},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireStore()
		if err != nil {
			return err
		}

		export, err := storage.Export(cmd.Context(), s)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch exportFormat {
		case "json":
			data, err = export.JSON()
		case "yaml":
			data, err = export.YAML()
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("✓ Exported %d samples to %s", len(export.Samples), exportOutput))
		} else {
			fmt.Fprintln(out, string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import samples from JSON",
	Long: `Import samples from a JSON file written by 'vitals export'.

The store is authorized for every metric type found in the file before the
samples are written. Duplicate entries (same ID) cause an error on SQLite.

EXAMPLES:

  vitals import backup.json`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationSetup: setupStore},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireStore()
		if err != nil {
			return err
		}
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		data, err := storage.ParseJSON(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		err = bulkWrite(s, func() error {
			return storage.Import(cmd.Context(), s, data)
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %d samples from %s", len(data.Samples), filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json or yaml")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
