// ABOUTME: Tests for the Record value type.
// ABOUTME: Covers optional fields, completeness, defaults, and JSON encoding.
package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRecordPartial(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	r := NewRecord(date, WithSteps(10000), WithHeartRateVariability(45))

	if steps, ok := r.Steps(); !ok || steps != 10000 {
		t.Errorf("Steps() = %d, %v; want 10000, true", steps, ok)
	}
	if _, ok := r.RestingHeartRate(); ok {
		t.Error("expected resting heart rate to be absent")
	}
	if got := r.Completeness(); got != 2 {
		t.Errorf("Completeness() = %d, want 2", got)
	}
	if r.IsComplete() {
		t.Error("expected partial record not to be complete")
	}
}

func TestRecordComplete(t *testing.T) {
	r := NewRecord(time.Now(),
		WithSteps(8000),
		WithHeartRateVariability(40),
		WithRestingHeartRate(60),
		WithVO2Max(42),
		WithSleepDuration(28800),
	)
	if !r.IsComplete() {
		t.Errorf("expected complete record, got %d/5", r.Completeness())
	}
}

func TestRecordZeroDateDefaultsToNow(t *testing.T) {
	before := time.Now()
	r := NewRecord(time.Time{})
	if r.Date().Before(before) {
		t.Errorf("expected date defaulted to now, got %v", r.Date())
	}
	if r.Completeness() != 0 {
		t.Errorf("expected empty record, got %d metrics", r.Completeness())
	}
}

func TestWithMetricRoundsSteps(t *testing.T) {
	r := NewRecord(time.Now(), WithMetric(MetricSteps, 1234.6), WithMetric(MetricVO2Max, 41.5))
	if steps, _ := r.Steps(); steps != 1235 {
		t.Errorf("Steps() = %d, want 1235", steps)
	}
	if v, _ := r.Value(MetricVO2Max); v != 41.5 {
		t.Errorf("Value(vo2_max) = %v, want 41.5", v)
	}
}

func TestRecordJSON(t *testing.T) {
	date := time.Date(2025, 1, 31, 13, 0, 0, 0, time.UTC)
	r := NewRecord(date, WithSteps(9000), WithSleepDuration(27000))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"date":"2025-01-31"`) {
		t.Errorf("expected date in output, got %s", s)
	}
	if strings.Contains(s, "vo2_max") {
		t.Errorf("expected absent vo2_max to be omitted, got %s", s)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Equal(r) {
		t.Errorf("decoded record %v differs from %v", &back, r)
	}
}

func TestRecordEqual(t *testing.T) {
	d := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	a := NewRecord(d, WithSteps(1))
	b := NewRecord(d.Add(5*time.Hour), WithSteps(1))
	c := NewRecord(d, WithSteps(2))

	if !a.Equal(b) {
		t.Error("expected same-day records with same values to be equal")
	}
	if a.Equal(c) {
		t.Error("expected different step counts to differ")
	}
}

func TestRecordEqualAcrossZones(t *testing.T) {
	utc := time.Date(2025, 2, 1, 23, 30, 0, 0, time.UTC)
	east := time.FixedZone("UTC+9", 9*60*60)
	west := time.FixedZone("UTC-8", -8*60*60)

	// 23:30 UTC is already Feb 2 in UTC+9.
	a := NewRecord(utc, WithSteps(1))
	b := NewRecord(utc.In(east), WithSteps(1))
	if !a.Equal(b) {
		t.Error("expected the same instant in different zones to be equal")
	}

	// 20:00 on Feb 1 in UTC-8 is Feb 2 UTC.
	c := NewRecord(time.Date(2025, 2, 1, 20, 0, 0, 0, west), WithSteps(1))
	if a.Equal(c) {
		t.Error("expected different UTC days to differ")
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"date":"2025-02-01"`) {
		t.Errorf("expected UTC date in %s", data)
	}
}
