// ABOUTME: Record is the immutable bundle of one day's five optional metrics.
// ABOUTME: Built with functional options; read through (value, ok) accessors.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar date format used for records on the wire.
const DateLayout = "2006-01-02"

// Record holds the five daily metrics for one date. Any metric may be absent.
// A Record is never modified after NewRecord returns.
type Record struct {
	steps                *int
	heartRateVariability *float64
	restingHeartRate     *float64
	vo2Max               *float64
	sleepDuration        *float64
	date                 time.Time
}

// RecordOption sets one metric on a Record under construction.
type RecordOption func(*Record)

// WithSteps sets the daily step count.
func WithSteps(steps int) RecordOption {
	return func(r *Record) { r.steps = &steps }
}

// WithHeartRateVariability sets HRV in milliseconds.
func WithHeartRateVariability(ms float64) RecordOption {
	return func(r *Record) { r.heartRateVariability = &ms }
}

// WithRestingHeartRate sets resting heart rate in beats per minute.
func WithRestingHeartRate(bpm float64) RecordOption {
	return func(r *Record) { r.restingHeartRate = &bpm }
}

// WithVO2Max sets VO2max in ml/kg/min.
func WithVO2Max(v float64) RecordOption {
	return func(r *Record) { r.vo2Max = &v }
}

// WithSleepDuration sets sleep duration in seconds.
func WithSleepDuration(seconds float64) RecordOption {
	return func(r *Record) { r.sleepDuration = &seconds }
}

// WithMetric sets a metric by type. Steps are rounded to the nearest integer.
func WithMetric(mt MetricType, value float64) RecordOption {
	switch mt {
	case MetricSteps:
		return WithSteps(int(math.Round(value)))
	case MetricHRV:
		return WithHeartRateVariability(value)
	case MetricRestingHeartRate:
		return WithRestingHeartRate(value)
	case MetricVO2Max:
		return WithVO2Max(value)
	case MetricSleepDuration:
		return WithSleepDuration(value)
	}
	return func(*Record) {}
}

// NewRecord creates a Record for date. A zero date means now.
func NewRecord(date time.Time, opts ...RecordOption) *Record {
	if date.IsZero() {
		date = time.Now()
	}
	r := &Record{date: date}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Date returns the date the record describes.
func (r *Record) Date() time.Time { return r.date }

// Steps returns the step count, if present.
func (r *Record) Steps() (int, bool) {
	if r.steps == nil {
		return 0, false
	}
	return *r.steps, true
}

// HeartRateVariability returns HRV in ms, if present.
func (r *Record) HeartRateVariability() (float64, bool) { return deref(r.heartRateVariability) }

// RestingHeartRate returns resting heart rate in bpm, if present.
func (r *Record) RestingHeartRate() (float64, bool) { return deref(r.restingHeartRate) }

// VO2Max returns VO2max in ml/kg/min, if present.
func (r *Record) VO2Max() (float64, bool) { return deref(r.vo2Max) }

// SleepDuration returns sleep duration in seconds, if present.
func (r *Record) SleepDuration() (float64, bool) { return deref(r.sleepDuration) }

// Value returns any metric as a float64 in its stored unit.
func (r *Record) Value(mt MetricType) (float64, bool) {
	switch mt {
	case MetricSteps:
		if s, ok := r.Steps(); ok {
			return float64(s), true
		}
		return 0, false
	case MetricHRV:
		return r.HeartRateVariability()
	case MetricRestingHeartRate:
		return r.RestingHeartRate()
	case MetricVO2Max:
		return r.VO2Max()
	case MetricSleepDuration:
		return r.SleepDuration()
	}
	return 0, false
}

// Completeness counts the metrics present, 0 through 5.
func (r *Record) Completeness() int {
	n := 0
	for _, mt := range AllMetricTypes {
		if _, ok := r.Value(mt); ok {
			n++
		}
	}
	return n
}

// IsComplete reports whether all five metrics are present.
func (r *Record) IsComplete() bool {
	return r.Completeness() == len(AllMetricTypes)
}

// Equal reports whether two records carry the same UTC date and metric values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.day() != o.day() {
		return false
	}
	for _, mt := range AllMetricTypes {
		a, aok := r.Value(mt)
		b, bok := o.Value(mt)
		if aok != bok || a != b {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	return fmt.Sprintf("Record(%s, %d/5 metrics)", r.day(), r.Completeness())
}

// day is the record's UTC calendar date.
func (r *Record) day() string {
	return r.date.UTC().Format(DateLayout)
}

type recordJSON struct {
	Date                   string   `json:"date" yaml:"date"`
	Steps                  *int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	HeartRateVariabilityMs *float64 `json:"heart_rate_variability_ms,omitempty" yaml:"heart_rate_variability_ms,omitempty"`
	RestingHeartRateBpm    *float64 `json:"resting_heart_rate_bpm,omitempty" yaml:"resting_heart_rate_bpm,omitempty"`
	VO2MaxMlKgMin          *float64 `json:"vo2_max_ml_kg_min,omitempty" yaml:"vo2_max_ml_kg_min,omitempty"`
	SleepDurationSeconds   *float64 `json:"sleep_duration_seconds,omitempty" yaml:"sleep_duration_seconds,omitempty"`
}

func (r *Record) wire() recordJSON {
	return recordJSON{
		Date:                   r.day(),
		Steps:                  r.steps,
		HeartRateVariabilityMs: r.heartRateVariability,
		RestingHeartRateBpm:    r.restingHeartRate,
		VO2MaxMlKgMin:          r.vo2Max,
		SleepDurationSeconds:   r.sleepDuration,
	}
}

// MarshalJSON omits absent metrics and writes the date as YYYY-MM-DD.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (r *Record) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

// UnmarshalJSON decodes the MarshalJSON form. It exists for decoding MCP and
// export payloads; callers still never mutate a Record they were handed.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, w.Date)
	if err != nil {
		return fmt.Errorf("parse record date %q: %w", w.Date, err)
	}
	*r = Record{
		steps:                w.Steps,
		heartRateVariability: w.HeartRateVariabilityMs,
		restingHeartRate:     w.RestingHeartRateBpm,
		vo2Max:               w.VO2MaxMlKgMin,
		sleepDuration:        w.SleepDurationSeconds,
		date:                 date,
	}
	return nil
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
