// ABOUTME: Static min/max tables for the five daily metrics.
// ABOUTME: Holds hard physiological bounds and the mock generator's output ranges.
package models

// Range is an inclusive [Min, Max] interval in the metric's display unit.
// Sleep ranges are expressed in hours.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// HardBounds are the physiological limits outside which a value is invalid.
var HardBounds = map[MetricType]Range{
	MetricSteps:            {Min: 0, Max: 100000},
	MetricHRV:              {Min: 1.0, Max: 200.0},
	MetricRestingHeartRate: {Min: 30.0, Max: 120.0},
	MetricVO2Max:           {Min: 10.0, Max: 90.0},
	MetricSleepDuration:    {Min: 1, Max: 16},
}

// GeneratedRanges are the ranges the deterministic generator stays within.
var GeneratedRanges = map[MetricType]Range{
	MetricSteps:            {Min: 8000, Max: 12950},
	MetricHRV:              {Min: 30.0, Max: 69.2},
	MetricRestingHeartRate: {Min: 55.0, Max: 83.8},
	MetricVO2Max:           {Min: 35.0, Max: 63.5},
	MetricSleepDuration:    {Min: 6.5, Max: 9.2},
}

// SecondsPerHour converts sleep durations between storage and display units.
const SecondsPerHour = 3600.0
