// ABOUTME: Inject provider that seeds the store with a synthetic trend once per instance.
// ABOUTME: After injection every fetch reads back through the live path.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Inject writes generator.Trend samples on its first fetch, then delegates to Live.
type Inject struct {
	live      *Live
	store     storage.Store
	trendDays int
	now       func() time.Time
	log       zerolog.Logger

	mu       sync.Mutex
	injected bool
	batch    string
}

// NewInject creates an inject provider over store.
func NewInject(store storage.Store, opts ...Option) *Inject {
	o := buildOptions(opts)
	return &Inject{
		live:      NewLive(store, opts...),
		store:     store,
		trendDays: o.trendDays,
		now:       o.now,
		log:       o.log.With().Str("component", "provider.inject").Logger(),
	}
}

func (p *Inject) IsAvailable() bool { return p.live.IsAvailable() }

func (p *Inject) RequestAccess(ctx context.Context) error { return p.live.RequestAccess(ctx) }

// Injected reports whether this instance has already seeded the store.
func (p *Inject) Injected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.injected
}

// Batch returns the ULID stamped on the samples this instance injected, or ""
// before the first successful injection.
func (p *Inject) Batch() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batch
}

// FetchMetrics injects on the first call, then reads date back from the store.
// A failed injection leaves the instance uninjected so the next call retries.
func (p *Inject) FetchMetrics(ctx context.Context, date time.Time) (*models.Record, error) {
	p.mu.Lock()
	if !p.injected {
		if err := p.inject(ctx, p.anchor(date)); err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.injected = true
	}
	p.mu.Unlock()

	return p.live.FetchMetrics(ctx, date)
}

// anchor is the last day of the trend: today on the provider clock, or date
// when that is later.
func (p *Inject) anchor(date time.Time) time.Time {
	today := p.now().UTC()
	if date.UTC().After(today) {
		return date
	}
	return today
}

// inject replaces any earlier synthetic samples with a fresh trend ending at anchor.
func (p *Inject) inject(ctx context.Context, anchor time.Time) error {
	if !p.store.Available() {
		return ErrSourceUnavailable
	}
	batch := ulid.Make().String()

	if err := p.store.RequestAuthorization(ctx, models.AllMetricTypes); err != nil {
		return classify(err)
	}

	removed, err := p.store.DeleteSamples(ctx, models.SyntheticSource, models.AllMetricTypes)
	if err != nil && !errors.Is(err, storage.ErrNoSamples) {
		return classify(fmt.Errorf("clear synthetic samples: %w", err))
	}

	samples := generator.Trend(anchor, p.trendDays)
	for _, s := range samples {
		s.WithBatch(batch)
	}
	if err := p.store.SaveSamples(ctx, samples); err != nil {
		return classify(fmt.Errorf("save synthetic samples: %w", err))
	}

	p.log.Info().
		Str("batch", batch).
		Str("anchor", generator.StartOfDay(anchor).Format(models.DateLayout)).
		Int("days", p.trendDays).
		Int("removed", removed).
		Int("written", len(samples)).
		Msg("injected synthetic samples")
	p.batch = batch
	return nil
}
