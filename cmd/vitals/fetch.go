// ABOUTME: CLI commands for daily and weekly metric views and access requests.
// ABOUTME: Renders records, validation results and weekly averages.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/dashboard"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/validation"
	"github.com/spf13/cobra"
)

var (
	fetchDate string
	fetchJSON bool
	weekEnd   string
	weekJSON  bool
)

var fetchCmd = &cobra.Command{
	Use:     "fetch",
	Aliases: []string{"f", "today"},
	Short:   "Show one day's metrics",
	Long: `Fetch the five daily metrics for a day and validate them.

A day is valid when at least three metrics are present and inside their
physiological bounds, and none is out of bounds. Warnings flag values that
are plausible but unusual; they never make a day invalid.

Future dates are rejected.

EXAMPLES:

  vitals fetch                    # Today (UTC)
  vitals fetch --date 2025-02-19  # A specific day
  vitals fetch --json             # Machine-readable output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(fetchDate)
		if err != nil {
			return err
		}

		report, err := svc.Daily(cmd.Context(), date)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if fetchJSON {
			return writeJSON(out, report)
		}
		printReport(out, report)
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:     "week",
	Aliases: []string{"w"},
	Short:   "Show the last seven days with averages",
	Long: `Fetch the seven days ending on --end (default today) and average each
metric over the days where it is present.

EXAMPLES:

  vitals week                    # The week ending today
  vitals week --end 2025-03-14   # The week ending on a given day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		end, err := parseDay(weekEnd)
		if err != nil {
			return err
		}

		week, err := svc.Week(cmd.Context(), end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if weekJSON {
			return writeJSON(out, week)
		}
		printWeek(out, week)
		return nil
	},
}

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Request access to the configured data source",
	Long: `Request read and write access to the five metric types.

The mock provider always grants access. Live and inject providers record the
grant in the configured store. Asking again after a grant is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.RequestAccess(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Access granted (%s provider)", cfg.GetProvider()))
		return nil
	},
}

// parseDay parses YYYY-MM-DD as a UTC date. Empty means now.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// formatValue renders a metric in its display unit. Sleep is shown in hours.
func formatValue(mt models.MetricType, v float64) string {
	switch mt {
	case models.MetricSteps:
		return fmt.Sprintf("%.0f steps", v)
	case models.MetricSleepDuration:
		return fmt.Sprintf("%.1f h", v/models.SecondsPerHour)
	default:
		return fmt.Sprintf("%.1f %s", v, models.MetricUnits[mt])
	}
}

func printReport(w io.Writer, report *dashboard.DailyReport) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintln(w, bold.Sprintf("%s  (%d/5 metrics)",
		report.Record.Date().Format(models.DateLayout), report.Record.Completeness()))

	status := statusByMetric(report.Validation)
	for _, mt := range models.AllMetricTypes {
		label := padRight(mt.Label(), 24)
		v, ok := report.Record.Value(mt)
		if !ok {
			fmt.Fprintf(w, "  %s %s\n", label, faint.Sprint("—"))
			continue
		}
		mark := color.GreenString("✓")
		if status[string(mt)] == "invalid" {
			mark = color.RedString("✗")
		}
		fmt.Fprintf(w, "  %s %s %s\n", label, mark, formatValue(mt, v))
	}

	fmt.Fprintln(w)
	printValidation(w, report.Validation)
}

func printValidation(w io.Writer, result validation.Result) {
	if result.IsValid {
		fmt.Fprintln(w, color.GreenString("Valid"))
	} else {
		fmt.Fprintln(w, color.RedString("Invalid"))
	}
	if len(result.InvalidMetrics) > 0 {
		fmt.Fprintf(w, "  out of bounds: %s\n", strings.Join(result.InvalidMetrics, ", "))
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(w, color.YellowString("  ⚠ %s", warning))
	}
}

func printWeek(w io.Writer, week *dashboard.WeekSummary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintln(w, bold.Sprintf("%s → %s  (%d/%d valid days)",
		week.Start.Format(models.DateLayout), week.End.Format(models.DateLayout),
		week.ValidDays, len(week.Days)))

	for _, day := range week.Days {
		mark := color.GreenString("✓")
		if !day.Validation.IsValid {
			mark = color.RedString("✗")
		}
		var parts []string
		for _, mt := range models.AllMetricTypes {
			if v, ok := day.Record.Value(mt); ok {
				parts = append(parts, formatValue(mt, v))
			}
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			faint.Sprint(day.Record.Date().Format(models.DateLayout)), mark, strings.Join(parts, "  "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("Averages"))
	for _, mt := range models.AllMetricTypes {
		v, ok := week.Averages[mt]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", padRight(mt.Label(), 24), formatValue(mt, v))
	}
}

func statusByMetric(result validation.Result) map[string]string {
	status := make(map[string]string)
	for _, m := range result.ValidMetrics {
		status[m] = "valid"
	}
	for _, m := range result.InvalidMetrics {
		status[m] = "invalid"
	}
	return status
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchDate, "date", "d", "", "day to fetch (YYYY-MM-DD, default today)")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output JSON")
	weekCmd.Flags().StringVarP(&weekEnd, "end", "e", "", "last day of the week (YYYY-MM-DD, default today)")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "output JSON")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(accessCmd)
}
