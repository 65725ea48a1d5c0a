// ABOUTME: Tests for the SQLite Store implementation.
// ABOUTME: Verifies authorization, sample writes, deletes, aggregates, and listing.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/models"
)

var testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "vitals-storage-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := Open(filepath.Join(tmpDir, "vitals.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.RequestAuthorization(context.Background(), models.AllMetricTypes); err != nil {
		t.Fatalf("RequestAuthorization failed: %v", err)
	}
	return db
}

func sampleAt(mt models.MetricType, v float64, at time.Time) *models.Sample {
	return models.NewSample(mt, v).WithRecordedAt(at).WithSource(models.SyntheticSource)
}

func TestSaveAndListSamples(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s1 := sampleAt(models.MetricSteps, 1000, testDay.Add(8*time.Hour))
	s2 := sampleAt(models.MetricSteps, 2000, testDay.Add(12*time.Hour))
	s3 := sampleAt(models.MetricHRV, 45, testDay.Add(6*time.Hour))

	if err := db.SaveSamples(ctx, []*models.Sample{s1, s2, s3}); err != nil {
		t.Fatalf("SaveSamples failed: %v", err)
	}

	all, err := db.ListSamples(ctx, SampleFilter{})
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(all))
	}
	if all[0].ID != s2.ID {
		t.Errorf("Expected most recent first, got %v", all[0].ID)
	}
	if !all[0].RecordedAt.Equal(s2.RecordedAt) {
		t.Errorf("RecordedAt mismatch: got %v, want %v", all[0].RecordedAt, s2.RecordedAt)
	}

	steps := models.MetricSteps
	filtered, err := db.ListSamples(ctx, SampleFilter{MetricType: &steps, Limit: 1})
	if err != nil {
		t.Fatalf("ListSamples with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].MetricType != models.MetricSteps {
		t.Errorf("Expected one steps sample, got %v", filtered)
	}
}

func TestSaveSamplesRequiresAuthorization(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := Open(filepath.Join(tmpDir, "vitals.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	err = db.SaveSamples(ctx, []*models.Sample{sampleAt(models.MetricVO2Max, 40, testDay)})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("Expected ErrNotAuthorized, got %v", err)
	}

	if err := db.RequestAuthorization(ctx, []models.MetricType{models.MetricVO2Max}); err != nil {
		t.Fatalf("RequestAuthorization failed: %v", err)
	}
	// Granting twice is a no-op.
	if err := db.RequestAuthorization(ctx, []models.MetricType{models.MetricVO2Max}); err != nil {
		t.Fatalf("second RequestAuthorization failed: %v", err)
	}
	if err := db.SaveSamples(ctx, []*models.Sample{sampleAt(models.MetricVO2Max, 40, testDay)}); err != nil {
		t.Fatalf("SaveSamples after grant failed: %v", err)
	}
}

func TestRequestAuthorizationUnknownType(t *testing.T) {
	db := setupTestDB(t)
	err := db.RequestAuthorization(context.Background(), []models.MetricType{"weight"})
	if err == nil {
		t.Error("Expected error for unknown metric type")
	}
}

func TestAggregate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	samples := []*models.Sample{
		sampleAt(models.MetricSteps, 3000, testDay.Add(9*time.Hour)),
		sampleAt(models.MetricSteps, 4500, testDay.Add(18*time.Hour)),
		sampleAt(models.MetricSteps, 9999, testDay.Add(24*time.Hour)), // next day
		sampleAt(models.MetricRestingHeartRate, 60, testDay.Add(6*time.Hour)),
		sampleAt(models.MetricRestingHeartRate, 64, testDay.Add(18*time.Hour)),
	}
	if err := db.SaveSamples(ctx, samples); err != nil {
		t.Fatalf("SaveSamples failed: %v", err)
	}

	end := testDay.Add(24 * time.Hour)
	steps, err := db.Aggregate(ctx, models.MetricSteps, testDay, end)
	if err != nil {
		t.Fatalf("Aggregate steps failed: %v", err)
	}
	if steps != 7500 {
		t.Errorf("Expected steps sum 7500, got %v", steps)
	}

	rhr, err := db.Aggregate(ctx, models.MetricRestingHeartRate, testDay, end)
	if err != nil {
		t.Fatalf("Aggregate rhr failed: %v", err)
	}
	if rhr != 62 {
		t.Errorf("Expected rhr average 62, got %v", rhr)
	}

	_, err = db.Aggregate(ctx, models.MetricVO2Max, testDay, end)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples for empty window, got %v", err)
	}
}

func TestDeleteSamples(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	manual := models.NewSample(models.MetricHRV, 50).WithRecordedAt(testDay).WithSource("manual")
	synthetic := sampleAt(models.MetricHRV, 40, testDay)
	syntheticSteps := sampleAt(models.MetricSteps, 100, testDay)
	if err := db.SaveSamples(ctx, []*models.Sample{manual, synthetic, syntheticSteps}); err != nil {
		t.Fatalf("SaveSamples failed: %v", err)
	}

	n, err := db.DeleteSamples(ctx, models.SyntheticSource, []models.MetricType{models.MetricHRV})
	if err != nil {
		t.Fatalf("DeleteSamples failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted, got %d", n)
	}

	n, err = db.DeleteSamples(ctx, models.SyntheticSource, nil)
	if err != nil {
		t.Fatalf("DeleteSamples all types failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted, got %d", n)
	}

	_, err = db.DeleteSamples(ctx, models.SyntheticSource, nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples on empty delete, got %v", err)
	}

	remaining, _ := db.ListSamples(ctx, SampleFilter{})
	if len(remaining) != 1 || remaining[0].Source != "manual" {
		t.Errorf("Expected only manual sample to remain, got %v", remaining)
	}
}

func TestClosedDBUnavailable(t *testing.T) {
	db := setupTestDB(t)
	if !db.Available() {
		t.Fatal("Expected open database to be available")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if db.Available() {
		t.Error("Expected closed database to be unavailable")
	}
	_, err := db.Aggregate(context.Background(), models.MetricSteps, testDay, testDay.Add(time.Hour))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	sum, err := Combine(models.MetricSleepDuration, []float64{3600, 1800})
	if err != nil || sum != 5400 {
		t.Errorf("Combine sleep = %v, %v; want 5400", sum, err)
	}
	avg, err := Combine(models.MetricHRV, []float64{40, 50})
	if err != nil || avg != 45 {
		t.Errorf("Combine hrv = %v, %v; want 45", avg, err)
	}
	if _, err := Combine(models.MetricHRV, nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Expected ErrNoSamples, got %v", err)
	}
}

func TestFormatTimeSortsLexically(t *testing.T) {
	a := FormatTime(testDay.Add(time.Second))
	b := FormatTime(testDay.Add(1500 * time.Millisecond))
	if !(a < b) {
		t.Errorf("Expected %q < %q", a, b)
	}
	parsed, err := ParseTime(b)
	if err != nil || !parsed.Equal(testDay.Add(1500*time.Millisecond)) {
		t.Errorf("ParseTime(%q) = %v, %v", b, parsed, err)
	}
}

func TestSamplesKeepBatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := sampleAt(models.MetricSteps, 1000, testDay.Add(8*time.Hour)).WithBatch("batch-a")
	b := sampleAt(models.MetricSteps, 2000, testDay.Add(9*time.Hour)).WithBatch("batch-b")
	plain := sampleAt(models.MetricHRV, 45, testDay.Add(6*time.Hour))
	if err := db.SaveSamples(ctx, []*models.Sample{a, b, plain}); err != nil {
		t.Fatalf("SaveSamples failed: %v", err)
	}

	got, err := db.ListSamples(ctx, SampleFilter{Batch: "batch-a"})
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID || got[0].Batch != "batch-a" {
		t.Fatalf("expected only batch-a sample, got %+v", got)
	}

	all, err := db.ListSamples(ctx, SampleFilter{})
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	for _, s := range all {
		if s.ID == plain.ID && s.Batch != "" {
			t.Errorf("expected empty batch for untagged sample, got %q", s.Batch)
		}
	}

	f := SampleFilter{Batch: "batch-b"}
	if f.Matches(a) || !f.Matches(b) {
		t.Error("Matches should filter on batch")
	}
}

func TestOpenAddsBatchColumnToOlderDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitals.db")

	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open old database: %v", err)
	}
	_, err = old.Exec(`CREATE TABLE samples (
		id TEXT PRIMARY KEY,
		metric_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create old schema: %v", err)
	}
	_, err = old.Exec(`INSERT INTO samples VALUES ('0b6c0a4e-8d1f-4a0e-9a53-3c7a1e0f2b11', 'steps', 500, 'count', ?, 'legacy', ?)`,
		FormatTime(testDay.Add(time.Hour)), FormatTime(testDay))
	if err != nil {
		t.Fatalf("insert old row: %v", err)
	}
	_ = old.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed on older database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RequestAuthorization(ctx, models.AllMetricTypes); err != nil {
		t.Fatalf("RequestAuthorization failed: %v", err)
	}
	s := sampleAt(models.MetricSteps, 700, testDay.Add(2*time.Hour)).WithBatch("new")
	if err := db.SaveSamples(ctx, []*models.Sample{s}); err != nil {
		t.Fatalf("SaveSamples failed: %v", err)
	}

	all, err := db.ListSamples(ctx, SampleFilter{})
	if err != nil {
		t.Fatalf("ListSamples failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(all))
	}
	if all[0].Batch != "new" || all[1].Batch != "" {
		t.Errorf("unexpected batches: %q, %q", all[0].Batch, all[1].Batch)
	}

	// Reopening finds the column and leaves it alone.
	_ = db.Close()
	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	_ = again.Close()
}
