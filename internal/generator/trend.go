// ABOUTME: Synthetic multi-day sample trend used to seed a backing store.
// ABOUTME: Drift plus bounded deterministic jitter per metric, tagged with the synthetic source.
package generator

import (
	"time"

	"github.com/harperreed/vitals/internal/models"
)

// DefaultTrendDays is how many days of samples an injection writes.
const DefaultTrendDays = 7

// trendSpec is start + drift*i, plus jitter in [-spread, +spread].
type trendSpec struct {
	start  float64
	drift  float64
	spread float64
	salt   int
}

var trendSpecs = map[models.MetricType]trendSpec{
	models.MetricSteps:            {start: 7000, drift: 400, spread: 250, salt: 1},
	models.MetricHRV:              {start: 40, drift: 1.5, spread: 3, salt: 2},
	models.MetricRestingHeartRate: {start: 64, drift: -0.5, spread: 1.5, salt: 3},
	models.MetricVO2Max:           {start: 40, drift: 0.3, spread: 0.5, salt: 4},
	models.MetricSleepDuration:    {start: 7.0, drift: 0.1, spread: 0.4, salt: 5},
}

// jitter maps (day, salt) onto [-spread, +spread] without any random source.
func jitter(day, salt int, spread float64) float64 {
	h := (day+1)*7919 + salt*104729
	frac := float64(h%1000) / 999.0
	return (frac*2 - 1) * spread
}

// TrendValue returns the daily value for metric mt on day index i (0 = oldest).
func TrendValue(mt models.MetricType, i int) float64 {
	ts, ok := trendSpecs[mt]
	if !ok {
		return 0
	}
	v := ts.start + ts.drift*float64(i) + jitter(i, ts.salt, ts.spread)
	switch mt {
	case models.MetricSteps:
		v = float64(int(v))
	case models.MetricSleepDuration:
		v *= models.SecondsPerHour
	}
	return v
}

// Trend builds synthetic samples for the days ending on anchor's UTC day.
// Steps are split into four partial samples that sum to the day value, and
// resting heart rate into three samples whose mean is the day value.
func Trend(anchor time.Time, days int) []*models.Sample {
	if days <= 0 {
		days = DefaultTrendDays
	}
	last := StartOfDay(anchor)
	var samples []*models.Sample
	for i := 0; i < days; i++ {
		day := last.AddDate(0, 0, i-(days-1))
		samples = append(samples, daySamples(day, i)...)
	}
	return samples
}

func daySamples(day time.Time, i int) []*models.Sample {
	var out []*models.Sample
	add := func(mt models.MetricType, v float64, at time.Duration) {
		out = append(out, models.NewSample(mt, v).
			WithRecordedAt(day.Add(at)).
			WithSource(models.SyntheticSource))
	}

	steps := TrendValue(models.MetricSteps, i)
	quarter := float64(int(steps / 4))
	for q := 0; q < 3; q++ {
		add(models.MetricSteps, quarter, time.Duration(8+3*q)*time.Hour)
	}
	add(models.MetricSteps, steps-3*quarter, 20*time.Hour)

	rhr := TrendValue(models.MetricRestingHeartRate, i)
	add(models.MetricRestingHeartRate, rhr-1, 6*time.Hour)
	add(models.MetricRestingHeartRate, rhr, 12*time.Hour)
	add(models.MetricRestingHeartRate, rhr+1, 18*time.Hour)

	add(models.MetricHRV, TrendValue(models.MetricHRV, i), 6*time.Hour+30*time.Minute)
	add(models.MetricVO2Max, TrendValue(models.MetricVO2Max, i), 17*time.Hour)
	add(models.MetricSleepDuration, TrendValue(models.MetricSleepDuration, i), 7*time.Hour)

	return out
}
