// ABOUTME: Data migration between sample store backends.
// ABOUTME: Copies every sample from source to destination, per type.

package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/vitals/internal/models"
)

// MigrateSummary holds counts of migrated samples.
type MigrateSummary struct {
	Samples int
	ByType  map[models.MetricType]int
}

// MigrateData copies all samples from src to dst. The destination should not
// already hold the same sample IDs; duplicates fail the SQLite insert.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{ByType: make(map[models.MetricType]int)}

	samples, err := src.ListSamples(ctx, SampleFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source samples: %w", err)
	}
	if len(samples) == 0 {
		return summary, nil
	}

	if err := dst.RequestAuthorization(ctx, sampleTypes(samples)); err != nil {
		return nil, fmt.Errorf("authorize destination: %w", err)
	}

	// Write per type so a failure names the type that broke.
	byType := make(map[models.MetricType][]*models.Sample)
	for _, s := range samples {
		byType[s.MetricType] = append(byType[s.MetricType], s)
	}
	for _, mt := range sampleTypes(samples) {
		if err := dst.SaveSamples(ctx, byType[mt]); err != nil {
			return nil, fmt.Errorf("save %s samples: %w", mt, err)
		}
		summary.ByType[mt] = len(byType[mt])
		summary.Samples += len(byType[mt])
	}

	return summary, nil
}

// IsEmpty reports whether s holds no samples.
func IsEmpty(ctx context.Context, s Store) (bool, error) {
	samples, err := s.ListSamples(ctx, SampleFilter{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(samples) == 0, nil
}
