// ABOUTME: MetricType enum and Sample model for the daily health metrics.
// ABOUTME: Defines the five tracked metric types, their units, and aggregation style.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricType identifies one of the five tracked daily metrics.
type MetricType string

const (
	MetricSteps            MetricType = "steps"
	MetricHRV              MetricType = "hrv"
	MetricRestingHeartRate MetricType = "resting_heart_rate"
	MetricVO2Max           MetricType = "vo2_max"
	MetricSleepDuration    MetricType = "sleep_duration"
)

// SyntheticSource tags samples written by the injection path.
const SyntheticSource = "vitals.synthetic"

// MetricUnits maps metric types to their stored units.
var MetricUnits = map[MetricType]string{
	MetricSteps:            "count",
	MetricHRV:              "ms",
	MetricRestingHeartRate: "bpm",
	MetricVO2Max:           "ml/kg/min",
	MetricSleepDuration:    "s",
}

// AllMetricTypes lists the metric types in canonical order.
// Validation results and CLI output follow this order.
var AllMetricTypes = []MetricType{
	MetricSteps,
	MetricHRV,
	MetricRestingHeartRate,
	MetricVO2Max,
	MetricSleepDuration,
}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// Aggregation describes how samples of a type combine into a daily value.
type Aggregation int

const (
	// AggregateSum adds every sample in the window (steps, sleep).
	AggregateSum Aggregation = iota
	// AggregateAverage takes the mean of discrete samples (hrv, heart rate, vo2max).
	AggregateAverage
)

// Aggregation returns how a day's worth of samples of this type is combined.
func (mt MetricType) Aggregation() Aggregation {
	switch mt {
	case MetricSteps, MetricSleepDuration:
		return AggregateSum
	default:
		return AggregateAverage
	}
}

// Label returns a human readable name used in warnings and CLI output.
func (mt MetricType) Label() string {
	switch mt {
	case MetricSteps:
		return "Step count"
	case MetricHRV:
		return "Heart rate variability"
	case MetricRestingHeartRate:
		return "Resting heart rate"
	case MetricVO2Max:
		return "VO2 max"
	case MetricSleepDuration:
		return "Sleep duration"
	}
	return string(mt)
}

// Sample is a single measurement held by the backing health store.
type Sample struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	MetricType MetricType `json:"metric_type" yaml:"metric_type"`
	Value      float64    `json:"value" yaml:"value"`
	Unit       string     `json:"unit" yaml:"unit"`
	RecordedAt time.Time  `json:"recorded_at" yaml:"recorded_at"`
	Source     string     `json:"source" yaml:"source"`
	Batch      string     `json:"batch,omitempty" yaml:"batch,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// NewSample creates a new Sample with generated UUID and current timestamp.
func NewSample(metricType MetricType, value float64) *Sample {
	now := time.Now().UTC()
	return &Sample{
		ID:         uuid.New(),
		MetricType: metricType,
		Value:      value,
		Unit:       MetricUnits[metricType],
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp, normalized to UTC.
func (s *Sample) WithRecordedAt(t time.Time) *Sample {
	s.RecordedAt = t.UTC()
	return s
}

// WithSource sets the source tag on the sample.
func (s *Sample) WithSource(source string) *Sample {
	s.Source = source
	return s
}

// WithBatch tags the sample with the write batch that produced it.
func (s *Sample) WithBatch(batch string) *Sample {
	s.Batch = batch
	return s
}
