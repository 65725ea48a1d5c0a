// ABOUTME: Range validation for daily metric records.
// ABOUTME: Classifies metrics against hard bounds and emits advisory warnings.
package validation

import (
	"fmt"

	"github.com/harperreed/vitals/internal/models"
)

// DefaultMinValidMetrics is the product rule for how many valid metrics make a
// record usable. It is a business decision, not a derived invariant.
const DefaultMinValidMetrics = 3

// Result is the outcome of validating one record.
type Result struct {
	IsValid        bool     `json:"is_valid" yaml:"is_valid"`
	ValidMetrics   []string `json:"valid_metrics" yaml:"valid_metrics"`
	InvalidMetrics []string `json:"invalid_metrics" yaml:"invalid_metrics"`
	Warnings       []string `json:"warnings" yaml:"warnings"`
}

// Validator inspects records. The zero value is not ready; use New.
type Validator struct {
	minValid int
}

// Option configures a Validator.
type Option func(*Validator)

// WithMinValidMetrics overrides how many valid metrics a record needs.
func WithMinValidMetrics(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.minValid = n
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{minValid: DefaultMinValidMetrics}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = New()

// Validate checks r with the default rules.
func Validate(r *models.Record) Result {
	return defaultValidator.Validate(r)
}

// Validate classifies each present metric and collects warnings. It never fails;
// a nil record yields an invalid result with no metrics.
func (v *Validator) Validate(r *models.Record) Result {
	res := Result{
		ValidMetrics:   []string{},
		InvalidMetrics: []string{},
		Warnings:       []string{},
	}
	if r == nil {
		return res
	}

	for _, mt := range models.AllMetricTypes {
		value, ok := r.Value(mt)
		if !ok {
			continue
		}
		display := value
		if mt == models.MetricSleepDuration {
			display = value / models.SecondsPerHour
		}
		if !models.HardBounds[mt].Contains(display) {
			res.InvalidMetrics = append(res.InvalidMetrics, string(mt))
			continue
		}
		res.ValidMetrics = append(res.ValidMetrics, string(mt))
		if w := advisory(mt, display); w != "" {
			res.Warnings = append(res.Warnings, w)
		}
	}

	res.IsValid = len(res.ValidMetrics) >= v.minValid && len(res.InvalidMetrics) == 0
	return res
}

// advisory returns a warning for an in-range but atypical value, or "".
func advisory(mt models.MetricType, v float64) string {
	switch mt {
	case models.MetricSteps:
		if v < 1000 {
			return fmt.Sprintf("Step count of %.0f is unusually low", v)
		}
		if v > 50000 {
			return fmt.Sprintf("Step count of %.0f is unusually high", v)
		}
	case models.MetricHRV:
		if v < 10 {
			return fmt.Sprintf("Heart rate variability of %.1f ms is below typical healthy range", v)
		}
	case models.MetricRestingHeartRate:
		if v < 40 || v > 100 {
			return fmt.Sprintf("Resting heart rate of %.1f bpm is outside typical range", v)
		}
	case models.MetricVO2Max:
		if v < 20 {
			return fmt.Sprintf("VO2 max of %.1f ml/kg/min indicates poor cardiovascular fitness", v)
		}
	case models.MetricSleepDuration:
		if v < 6 {
			return fmt.Sprintf("Sleep duration of %.1f hours is below recommended minimum", v)
		}
		if v > 10 {
			return fmt.Sprintf("Sleep duration of %.1f hours is above typical range", v)
		}
	}
	return ""
}
