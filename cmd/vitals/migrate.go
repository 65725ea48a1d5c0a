// ABOUTME: CLI command for copying samples between storage backends.
// ABOUTME: Moves data between sqlite, badger and Charm KV stores.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/charm"
	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy samples from one backend to another",
	Long: `Copy every sample from one storage backend to another.

BACKENDS:

  sqlite   vitals.db in the data directory
  badger   badger/ in the data directory
  charm    Charm KV (synced through Charm Cloud)

IMPORTANT:

  - The destination is authorized for every migrated metric type
  - A non-empty destination is refused unless --force is given
  - Run with --dry-run first to see what would be migrated

USAGE:

  vitals migrate --from sqlite --to badger --dry-run
  vitals migrate --from sqlite --to charm

AFTER MIGRATION:

  Point the CLI at the new backend:
    export VITALS_BACKEND=charm`,
	Annotations: map[string]string{annotationSetup: setupNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to are both %q", migrateFrom)
		}
		for _, b := range []string{migrateFrom, migrateTo} {
			if !isBackend(b) {
				return fmt.Errorf("unknown backend: %q (use sqlite, badger or charm)", b)
			}
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		src, err := cfg.OpenBackend(migrateFrom, logger)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			samples, err := src.ListSamples(ctx, storage.SampleFilter{})
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			counts := make(map[models.MetricType]int)
			for _, s := range samples {
				counts[s.MetricType]++
			}
			fmt.Fprintf(out, "Would migrate %d samples from %s to %s\n", len(samples), migrateFrom, migrateTo)
			printCounts(cmd, counts)
			return nil
		}

		dst, err := cfg.OpenBackend(migrateTo, logger)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		if !migrateForce {
			empty, err := storage.IsEmpty(ctx, dst)
			if err != nil {
				return fmt.Errorf("failed to inspect destination: %w", err)
			}
			if !empty {
				return fmt.Errorf("destination %s already has samples (use --force to merge)", migrateTo)
			}
		}

		var summary *storage.MigrateSummary
		err = bulkWrite(dst, func() error {
			var err error
			summary, err = storage.MigrateData(ctx, src, dst)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migrated %d samples from %s to %s", summary.Samples, migrateFrom, migrateTo))
		printCounts(cmd, summary.ByType)
		return nil
	},
}

// bulkWrite runs fn against s. KV stores sync once at the end instead of
// after every write.
func bulkWrite(s storage.Store, fn func() error) error {
	if kc, ok := s.(*charm.Client); ok {
		return kc.BulkLoad(fn)
	}
	return fn()
}

func isBackend(name string) bool {
	for _, b := range config.Backends {
		if b == name {
			return true
		}
	}
	return false
}

func printCounts(cmd *cobra.Command, counts map[models.MetricType]int) {
	for _, mt := range models.AllMetricTypes {
		if n := counts[mt]; n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %d\n", padRight(string(mt), 20), n)
		}
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendCharm, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "migrate into a destination that already has samples")
	rootCmd.AddCommand(migrateCmd)
}
