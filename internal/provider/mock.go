// ABOUTME: Mock provider backed by the deterministic generator.
// ABOUTME: Always available, always authorized; optional bounded latency.
package provider

import (
	"context"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/rs/zerolog"
)

// MaxMockLatency caps the artificial delay of the mock provider.
const MaxMockLatency = 900 * time.Millisecond

// Mock synthesizes records from the day-of-year generator.
type Mock struct {
	latency time.Duration
	log     zerolog.Logger
}

// NewMock creates a mock provider.
func NewMock(opts ...Option) *Mock {
	o := buildOptions(opts)
	latency := o.latency
	if latency < 0 {
		latency = 0
	}
	if latency > MaxMockLatency {
		latency = MaxMockLatency
	}
	return &Mock{
		latency: latency,
		log:     o.log.With().Str("component", "provider.mock").Logger(),
	}
}

// Latency returns the effective artificial delay.
func (m *Mock) Latency() time.Duration { return m.latency }

func (m *Mock) IsAvailable() bool { return true }

func (m *Mock) RequestAccess(ctx context.Context) error { return nil }

// FetchMetrics waits out the configured latency, then generates the record.
func (m *Mock) FetchMetrics(ctx context.Context, date time.Time) (*models.Record, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &FetchError{Cause: ctx.Err()}
		case <-timer.C:
		}
	}
	record := generator.Generate(date)
	m.log.Debug().Str("date", record.Date().Format(models.DateLayout)).Msg("generated record")
	return record, nil
}
