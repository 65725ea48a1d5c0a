// ABOUTME: Root Cobra command for vitals CLI.
// ABOUTME: Loads config and wires logger, store, provider and dashboard in PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/dashboard"
	"github.com/harperreed/vitals/internal/logging"
	"github.com/harperreed/vitals/internal/provider"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Command annotations controlling what PersistentPreRunE sets up.
const (
	annotationSetup = "vitals.setup"
	setupNone       = "none"  // config and logger only
	setupStore      = "store" // always open the store
)

var (
	cfg    *config.Config
	logger = zerolog.Nop()
	store  storage.Store
	svc    *dashboard.Service
)

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Daily health metrics from mock, injected or live sources",
	Long: `Vitals answers "what were my five daily metrics on a given day":
step count, heart rate variability, resting heart rate, VO2 max and sleep.

PROVIDERS:

  mock     Deterministic values keyed by the day of the year (default)
  inject   Writes seven days of synthetic samples into the store once,
           then reads them back like live data
  live     Reads whatever samples the store holds; missing metrics are
           shown as absent rather than failing

  Select with VITALS_PROVIDER or "provider" in the config file.

QUICK START:

  $ vitals fetch                          # Today's metrics with validation
  $ vitals fetch --date 2025-02-19        # A specific day
  $ vitals week                           # Last seven days with averages
  $ vitals validate --steps 8000 --hrv 45 # Check values against bounds
  $ VITALS_PROVIDER=inject vitals fetch   # Seed the store, then read back

STORAGE:

  sqlite   ~/.local/share/vitals/vitals.db (default)
  badger   ~/.local/share/vitals/badger/
  charm    Charm KV, synced through Charm Cloud

  Select with VITALS_BACKEND or "backend" in the config file.

CONFIGURATION:

  ~/.config/vitals/config.json, then .env in the working directory,
  then VITALS_* environment variables (highest precedence).
  'vitals config' shows the effective settings and edits the file.

MCP INTEGRATION:

  Run 'vitals mcp' to start the Model Context Protocol server.

  {
    "mcpServers": {
      "vitals": { "command": "vitals", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command. The store is closed even when a command fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}

func setup(cmd *cobra.Command, args []string) error {
	// Skip setup for commands that don't need it
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	mode := cmd.Annotations[annotationSetup]
	if mode == setupNone {
		return nil
	}

	if mode == setupStore || cfg.NeedsStore() {
		store, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
		}
	}

	p, err := cfg.OpenProvider(store, logger)
	if err != nil {
		return err
	}
	svc = dashboard.New(p, dashboard.WithLogger(logger))
	logger.Debug().
		Str("provider", string(cfg.GetProvider())).
		Str("backend", cfg.GetBackend()).
		Msg("ready")
	return nil
}

func teardown() error {
	svc = nil
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// requireStore returns the open store or explains how to get one.
func requireStore() (storage.Store, error) {
	if store == nil {
		return nil, errors.New("no store is open for this command")
	}
	return store, nil
}

// printError renders err, adding a retry hint for provider failures.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	fmt.Fprintf(w, "%s %v\n", red.Sprint("✗"), err)

	hint := ""
	switch {
	case errors.Is(err, provider.ErrAccessDenied):
		hint = "Grant access with 'vitals access', then retry."
	case errors.Is(err, provider.ErrSourceUnavailable):
		hint = "Check the configured backend (VITALS_BACKEND) and retry."
	case errors.Is(err, provider.ErrFetchFailed):
		hint = "This may be transient. Retry the command."
	case errors.Is(err, provider.ErrInvalidData):
		hint = "Pick today or an earlier date and retry."
	case errors.Is(err, provider.ErrAccessUnknown):
		hint = "Retry 'vitals access'."
	}
	if hint != "" {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("  "+hint))
	}
}
