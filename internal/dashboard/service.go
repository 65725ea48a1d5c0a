// ABOUTME: Use-case layer between the consuming surfaces and a metrics provider.
// ABOUTME: Rejects future dates, validates fetched records and builds weekly summaries.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/provider"
	"github.com/harperreed/vitals/internal/validation"
	"github.com/rs/zerolog"
)

// WeekDays is the number of days in a weekly summary.
const WeekDays = 7

// DailyReport is one day's record and its validation result.
type DailyReport struct {
	Record     *models.Record    `json:"record" yaml:"record"`
	Validation validation.Result `json:"validation" yaml:"validation"`
}

// WeekSummary covers the seven days ending on End.
type WeekSummary struct {
	Start     time.Time                     `json:"start" yaml:"start"`
	End       time.Time                     `json:"end" yaml:"end"`
	Days      []*DailyReport                `json:"days" yaml:"days"`
	Averages  map[models.MetricType]float64 `json:"averages" yaml:"averages"`
	ValidDays int                           `json:"valid_days" yaml:"valid_days"`
}

// Service serves daily and weekly views from a provider.
type Service struct {
	provider  provider.Provider
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for the future-date check.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "dashboard").Logger() }
}

// New creates a Service over p.
func New(p provider.Provider, opts ...Option) *Service {
	s := &Service{
		provider:  p,
		validator: validation.New(),
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the underlying provider.
func (s *Service) Provider() provider.Provider { return s.provider }

// RequestAccess passes through to the provider; errors are returned unchanged.
func (s *Service) RequestAccess(ctx context.Context) error {
	return s.provider.RequestAccess(ctx)
}

// Daily fetches and validates the record for date. Dates after today's UTC
// calendar day are rejected with provider.ErrInvalidData.
func (s *Service) Daily(ctx context.Context, date time.Time) (*DailyReport, error) {
	day := generator.StartOfDay(date)
	today := generator.StartOfDay(s.now())
	if day.After(today) {
		return nil, fmt.Errorf("%w: %s is in the future", provider.ErrInvalidData, day.Format(models.DateLayout))
	}

	record, err := s.provider.FetchMetrics(ctx, day)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(record)
	s.log.Debug().
		Str("date", day.Format(models.DateLayout)).
		Int("metrics", record.Completeness()).
		Bool("valid", result.IsValid).
		Msg("daily report")
	return &DailyReport{Record: record, Validation: result}, nil
}

// Week fetches the seven days ending on end, oldest first, and averages each
// metric over the days where it is present.
func (s *Service) Week(ctx context.Context, end time.Time) (*WeekSummary, error) {
	last := generator.StartOfDay(end)
	summary := &WeekSummary{
		Start:    last.AddDate(0, 0, -(WeekDays - 1)),
		End:      last,
		Averages: make(map[models.MetricType]float64),
	}

	sums := make(map[models.MetricType]float64)
	counts := make(map[models.MetricType]int)
	for i := 0; i < WeekDays; i++ {
		report, err := s.Daily(ctx, summary.Start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		summary.Days = append(summary.Days, report)
		if report.Validation.IsValid {
			summary.ValidDays++
		}
		for _, mt := range models.AllMetricTypes {
			if v, ok := report.Record.Value(mt); ok {
				sums[mt] += v
				counts[mt]++
			}
		}
	}

	for mt, n := range counts {
		summary.Averages[mt] = sums[mt] / float64(n)
	}
	return summary, nil
}
