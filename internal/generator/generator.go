// ABOUTME: Deterministic mock generator for the five daily metrics.
// ABOUTME: Values are a pure function of the UTC day-of-year of the requested date.
package generator

import (
	"time"

	"github.com/harperreed/vitals/internal/models"
)

// formula is base + (seed mod modulus) * step.
type formula struct {
	base    float64
	modulus int
	step    float64
}

func (f formula) apply(seed int) float64 {
	return f.base + float64(seed%f.modulus)*f.step
}

// Sleep is generated in hours and converted to seconds.
var formulas = map[models.MetricType]formula{
	models.MetricSteps:            {base: 8000, modulus: 100, step: 50},
	models.MetricHRV:              {base: 30.0, modulus: 50, step: 0.8},
	models.MetricRestingHeartRate: {base: 55.0, modulus: 25, step: 1.2},
	models.MetricVO2Max:           {base: 35.0, modulus: 20, step: 1.5},
	models.MetricSleepDuration:    {base: 6.5, modulus: 10, step: 0.3},
}

// Seed returns the UTC day-of-year (1-366) for date, or 1 if it falls outside that range.
func Seed(date time.Time) int {
	day := date.UTC().YearDay()
	if day < 1 || day > 366 {
		return 1
	}
	return day
}

// StartOfDay truncates t to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Value returns the generated value of one metric for date, in stored units.
func Value(mt models.MetricType, date time.Time) float64 {
	f, ok := formulas[mt]
	if !ok {
		return 0
	}
	v := f.apply(Seed(date))
	if mt == models.MetricSleepDuration {
		v *= models.SecondsPerHour
	}
	return v
}

// Generate returns a fully populated record for the UTC calendar day of date.
// Any two timestamps on the same UTC day produce equal records.
func Generate(date time.Time) *models.Record {
	day := StartOfDay(date)
	opts := make([]models.RecordOption, 0, len(models.AllMetricTypes))
	for _, mt := range models.AllMetricTypes {
		opts = append(opts, models.WithMetric(mt, Value(mt, day)))
	}
	return models.NewRecord(day, opts...)
}
