// ABOUTME: Live provider that reads daily aggregates from the backing store.
// ABOUTME: Missing metrics become absent fields; only total failure is an error.
package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/rs/zerolog"
)

// Live queries the store once per metric over the UTC day.
type Live struct {
	store storage.Store
	log   zerolog.Logger

	mu      sync.Mutex
	granted bool
}

// NewLive creates a live provider over store.
func NewLive(store storage.Store, opts ...Option) *Live {
	o := buildOptions(opts)
	return &Live{
		store: store,
		log:   o.log.With().Str("component", "provider.live").Logger(),
	}
}

func (l *Live) IsAvailable() bool { return l.store.Available() }

// RequestAccess asks the store for read and write authorization on all five
// metric types. Success is cached.
func (l *Live) RequestAccess(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.granted {
		return nil
	}
	if !l.store.Available() {
		return ErrSourceUnavailable
	}
	if err := l.store.RequestAuthorization(ctx, models.AllMetricTypes); err != nil {
		if errors.Is(err, storage.ErrAuthorizationDenied) {
			return ErrAccessDenied
		}
		if errors.Is(err, storage.ErrUnavailable) {
			return ErrSourceUnavailable
		}
		return &AccessError{Cause: err}
	}
	l.granted = true
	l.log.Debug().Msg("store authorization granted")
	return nil
}

// FetchMetrics aggregates each metric over [00:00, 24:00) UTC of date.
func (l *Live) FetchMetrics(ctx context.Context, date time.Time) (*models.Record, error) {
	if !l.store.Available() {
		return nil, ErrSourceUnavailable
	}

	start := generator.StartOfDay(date)
	end := start.AddDate(0, 0, 1)

	var opts []models.RecordOption
	for _, mt := range models.AllMetricTypes {
		v, err := l.store.Aggregate(ctx, mt, start, end)
		if errors.Is(err, storage.ErrNoSamples) {
			continue
		}
		if err != nil {
			return nil, classify(err)
		}
		opts = append(opts, models.WithMetric(mt, v))
	}

	record := models.NewRecord(start, opts...)
	l.log.Debug().
		Str("date", start.Format(models.DateLayout)).
		Int("metrics", record.Completeness()).
		Msg("fetched record")
	return record, nil
}
