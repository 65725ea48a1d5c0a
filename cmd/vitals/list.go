// ABOUTME: CLI commands for listing and clearing stored samples.
// ABOUTME: Supports filtering by type and source and limiting results.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listType    string
	listSource  string
	listBatch   string
	listLimit   int
	clearSource string
	clearType   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List stored samples",
	Long: `List raw samples from the configured store, most recent first.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  TYPE  VALUE  UNIT  SOURCE  [BATCH]

  Injected samples carry the ID of the batch that wrote them.

FILTERING:

  Use --type to filter by metric type:
    steps, hrv, resting_heart_rate, vo2_max, sleep_duration

  Use --source to filter by source, e.g. vitals.synthetic for injected data.
  Use --batch to show only the samples from one injection.

EXAMPLES:

  vitals list                      # Show last 20 samples (all types)
  vitals list --type steps         # Show only step samples
  vitals list -t hrv -n 50         # Show last 50 HRV samples
  vitals list --source vitals.synthetic`,
	Annotations: map[string]string{annotationSetup: setupStore},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireStore()
		if err != nil {
			return err
		}

		filter := storage.SampleFilter{Source: listSource, Batch: listBatch, Limit: listLimit}
		if listType != "" {
			if !models.IsValidMetricType(listType) {
				return fmt.Errorf("unknown metric type: %s", listType)
			}
			mt := models.MetricType(listType)
			filter.MetricType = &mt
		}

		samples, err := s.ListSamples(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list samples: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(samples) == 0 {
			fmt.Fprintln(out, "No samples found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, smp := range samples {
			line := fmt.Sprintf("%s %s %s %.2f %s %s",
				faint.Sprint(smp.ID.String()[:8]),
				faint.Sprint(smp.RecordedAt.Format("2006-01-02 15:04")),
				padRight(string(smp.MetricType), 20),
				smp.Value,
				smp.Unit,
				faint.Sprint(truncate(smp.Source, 24)))
			if smp.Batch != "" {
				line += " " + faint.Sprint(smp.Batch)
			}
			fmt.Fprintln(out, line)
		}

		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete samples written by a source",
	Long: `Delete every sample written by a source (default: the synthetic samples
written by the inject provider).

EXAMPLES:

  vitals clear                         # Remove injected samples
  vitals clear --type steps            # Remove injected step samples only
  vitals clear --source my-importer    # Remove another source's samples`,
	Annotations: map[string]string{annotationSetup: setupStore},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireStore()
		if err != nil {
			return err
		}

		var types []models.MetricType
		if clearType != "" {
			if !models.IsValidMetricType(clearType) {
				return fmt.Errorf("unknown metric type: %s", clearType)
			}
			types = append(types, models.MetricType(clearType))
		}

		out := cmd.OutOrStdout()
		n, err := s.DeleteSamples(cmd.Context(), clearSource, types)
		if errors.Is(err, storage.ErrNoSamples) {
			fmt.Fprintf(out, "Nothing to clear from %s.\n", clearSource)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to clear samples: %w", err)
		}

		fmt.Fprintln(out, color.YellowString("✗ Deleted %d samples from %s", n, clearSource))
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by metric type")
	listCmd.Flags().StringVarP(&listSource, "source", "s", "", "filter by source")
	listCmd.Flags().StringVarP(&listBatch, "batch", "b", "", "filter by injection batch ID")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	clearCmd.Flags().StringVarP(&clearSource, "source", "s", models.SyntheticSource, "source whose samples to delete")
	clearCmd.Flags().StringVarP(&clearType, "type", "t", "", "only delete this metric type")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clearCmd)
}
