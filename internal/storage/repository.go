// ABOUTME: Store interface for the backing health-data store.
// ABOUTME: Defines authorization, sample write/delete, and aggregate queries.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/vitals/internal/models"
)

var (
	// ErrNoSamples means a query or delete matched nothing.
	ErrNoSamples = errors.New("no samples")
	// ErrNotAuthorized means a write hit a metric type that was never granted.
	ErrNotAuthorized = errors.New("not authorized for metric type")
	// ErrAuthorizationDenied means the store refused an authorization request.
	ErrAuthorizationDenied = errors.New("authorization denied")
	// ErrUnavailable means the store cannot be queried at all.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the health-data store the providers read from and inject into.
// Implementations: *DB (SQLite) and *charm.Client (Charm KV or Badger).
type Store interface {
	// Available reports whether the store can be queried at all.
	Available() bool

	// RequestAuthorization grants read and write access for the given types.
	// Granting an already granted type is a no-op.
	RequestAuthorization(ctx context.Context, types []models.MetricType) error

	// SaveSamples writes samples. Every sample's type must be authorized.
	SaveSamples(ctx context.Context, samples []*models.Sample) error

	// DeleteSamples removes samples from source for the given types (all types
	// when empty) and returns how many were removed. Nothing removed is ErrNoSamples.
	DeleteSamples(ctx context.Context, source string, types []models.MetricType) (int, error)

	// Aggregate combines samples of metricType recorded in [start, end) using the
	// type's aggregation. No samples in the window is ErrNoSamples.
	Aggregate(ctx context.Context, metricType models.MetricType, start, end time.Time) (float64, error)

	// ListSamples returns samples matching filter, most recent first.
	ListSamples(ctx context.Context, filter SampleFilter) ([]*models.Sample, error)

	Close() error
}

// SampleFilter narrows ListSamples. Zero fields do not filter.
type SampleFilter struct {
	MetricType *models.MetricType
	Source     string
	Batch      string
	Since      time.Time
	Until      time.Time
	Limit      int
}

// Matches reports whether s passes the filter, ignoring Limit.
func (f SampleFilter) Matches(s *models.Sample) bool {
	if f.MetricType != nil && s.MetricType != *f.MetricType {
		return false
	}
	if f.Source != "" && s.Source != f.Source {
		return false
	}
	if f.Batch != "" && s.Batch != f.Batch {
		return false
	}
	if !f.Since.IsZero() && s.RecordedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !s.RecordedAt.Before(f.Until) {
		return false
	}
	return true
}

// TimeLayout is the fixed-width UTC layout stores use for recorded_at, so that
// lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in TimeLayout after converting to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp, falling back to RFC3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
