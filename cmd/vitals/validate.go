// ABOUTME: CLI command for validating metric values without fetching.
// ABOUTME: Builds a record from flags and prints the validation result.
package main

import (
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/validation"
	"github.com/spf13/cobra"
)

var (
	validateSteps    int
	validateHRV      float64
	validateRHR      float64
	validateVO2      float64
	validateSleep    float64
	validateMinValid int
	validateJSONOut  bool
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"check"},
	Short:   "Validate metric values against physiological bounds",
	Long: `Validate a set of metric values. Only the flags you pass are checked.

BOUNDS:

  steps                0 – 100000
  hrv                  1 – 200 ms
  resting heart rate   30 – 120 bpm
  vo2 max              10 – 90 ml/kg/min
  sleep                1 – 16 hours

At least three metrics must be present and in bounds, and none out of
bounds, for the set to be valid (--min-valid changes the three).

EXAMPLES:

  vitals validate --steps 8000 --hrv 45 --rhr 65 --vo2 45 --sleep 7.5
  vitals validate --steps -100 --hrv 45 --rhr 65`,
	Annotations: map[string]string{annotationSetup: setupNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var opts []models.RecordOption
		if flags.Changed("steps") {
			opts = append(opts, models.WithSteps(validateSteps))
		}
		if flags.Changed("hrv") {
			opts = append(opts, models.WithHeartRateVariability(validateHRV))
		}
		if flags.Changed("rhr") {
			opts = append(opts, models.WithRestingHeartRate(validateRHR))
		}
		if flags.Changed("vo2") {
			opts = append(opts, models.WithVO2Max(validateVO2))
		}
		if flags.Changed("sleep") {
			opts = append(opts, models.WithSleepDuration(validateSleep*models.SecondsPerHour))
		}

		v := validation.New(validation.WithMinValidMetrics(validateMinValid))
		result := v.Validate(models.NewRecord(time.Time{}, opts...))

		out := cmd.OutOrStdout()
		if validateJSONOut {
			return writeJSON(out, result)
		}
		printValidation(out, result)
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateSteps, "steps", 0, "daily step count")
	validateCmd.Flags().Float64Var(&validateHRV, "hrv", 0, "heart rate variability (ms)")
	validateCmd.Flags().Float64Var(&validateRHR, "rhr", 0, "resting heart rate (bpm)")
	validateCmd.Flags().Float64Var(&validateVO2, "vo2", 0, "VO2 max (ml/kg/min)")
	validateCmd.Flags().Float64Var(&validateSleep, "sleep", 0, "sleep duration (hours)")
	validateCmd.Flags().IntVar(&validateMinValid, "min-valid", validation.DefaultMinValidMetrics, "metrics required for a valid set")
	validateCmd.Flags().BoolVar(&validateJSONOut, "json", false, "output JSON")
	rootCmd.AddCommand(validateCmd)
}
