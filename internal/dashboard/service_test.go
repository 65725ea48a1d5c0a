// ABOUTME: Tests for the dashboard service over mock and stub providers.
// ABOUTME: Covers future-date rejection, validation wiring and weekly averages.
package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/provider"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/harperreed/vitals/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// stubProvider returns records from a map and counts fetches.
type stubProvider struct {
	records   map[string]*models.Record
	err       error
	accessErr error
	fetches   int
}

func (p *stubProvider) IsAvailable() bool { return true }

func (p *stubProvider) RequestAccess(ctx context.Context) error { return p.accessErr }

func (p *stubProvider) FetchMetrics(ctx context.Context, date time.Time) (*models.Record, error) {
	p.fetches++
	if p.err != nil {
		return nil, p.err
	}
	if r, ok := p.records[date.Format(models.DateLayout)]; ok {
		return r, nil
	}
	return models.NewRecord(date), nil
}

func TestDailyToday(t *testing.T) {
	svc := New(provider.NewMock(), WithClock(clock))

	report, err := svc.Daily(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.True(t, report.Record.Equal(generator.Generate(fixedNow)))
	assert.True(t, report.Validation.IsValid)
}

func TestDailyRejectsFuture(t *testing.T) {
	stub := &stubProvider{}
	svc := New(stub, WithClock(clock))

	_, err := svc.Daily(context.Background(), fixedNow.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, provider.ErrInvalidData)
	assert.Equal(t, 0, stub.fetches)

	// Later the same UTC day is still today.
	_, err = svc.Daily(context.Background(), time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestDailyPropagatesProviderError(t *testing.T) {
	cause := &provider.FetchError{Cause: errors.New("timeout")}
	svc := New(&stubProvider{err: cause}, WithClock(clock))

	_, err := svc.Daily(context.Background(), fixedNow)
	assert.ErrorIs(t, err, provider.ErrFetchFailed)
}

func TestDailyUsesConfiguredValidator(t *testing.T) {
	day := generator.StartOfDay(fixedNow)
	stub := &stubProvider{records: map[string]*models.Record{
		day.Format(models.DateLayout): models.NewRecord(day, models.WithSteps(8000), models.WithVO2Max(45)),
	}}

	report, err := New(stub, WithClock(clock)).Daily(context.Background(), day)
	require.NoError(t, err)
	assert.False(t, report.Validation.IsValid)

	report, err = New(stub, WithClock(clock), WithValidator(validation.New(validation.WithMinValidMetrics(2)))).
		Daily(context.Background(), day)
	require.NoError(t, err)
	assert.True(t, report.Validation.IsValid)
}

func TestWeekAveragesPresentValues(t *testing.T) {
	end := generator.StartOfDay(fixedNow)
	records := map[string]*models.Record{}
	for i := 0; i < WeekDays; i++ {
		day := end.AddDate(0, 0, -i)
		opts := []models.RecordOption{models.WithSteps(1000 * (i + 1))}
		if i < 2 {
			opts = append(opts, models.WithHeartRateVariability(40+float64(i)*10))
		}
		records[day.Format(models.DateLayout)] = models.NewRecord(day, opts...)
	}
	stub := &stubProvider{records: records}

	week, err := New(stub, WithClock(clock)).Week(context.Background(), fixedNow)
	require.NoError(t, err)

	require.Len(t, week.Days, WeekDays)
	assert.Equal(t, WeekDays, stub.fetches)
	assert.True(t, week.Start.Equal(end.AddDate(0, 0, -6)))
	assert.True(t, week.Days[0].Record.Date().Equal(week.Start))
	assert.True(t, week.Days[6].Record.Date().Equal(end))

	assert.Equal(t, 4000.0, week.Averages[models.MetricSteps])
	assert.Equal(t, 45.0, week.Averages[models.MetricHRV])
	_, ok := week.Averages[models.MetricVO2Max]
	assert.False(t, ok)
	assert.Equal(t, 0, week.ValidDays)
}

func TestWeekWithMockIsAllValid(t *testing.T) {
	week, err := New(provider.NewMock(), WithClock(clock)).Week(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, WeekDays, week.ValidDays)
	assert.Len(t, week.Averages, len(models.AllMetricTypes))
}

func TestWeekEndingInFutureFails(t *testing.T) {
	_, err := New(provider.NewMock(), WithClock(clock)).Week(context.Background(), fixedNow.AddDate(0, 0, 3))
	assert.ErrorIs(t, err, provider.ErrInvalidData)
}

func TestRequestAccessPassesThrough(t *testing.T) {
	svc := New(&stubProvider{accessErr: provider.ErrAccessDenied})
	assert.ErrorIs(t, svc.RequestAccess(context.Background()), provider.ErrAccessDenied)
	assert.NoError(t, New(provider.NewMock()).RequestAccess(context.Background()))
}

func TestWeekWithInjectReadsBackEveryDay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "vitals.db"))
	require.NoError(t, err)
	defer store.Close()

	p := provider.NewInject(store, provider.WithClock(clock))
	svc := New(p, WithClock(clock))

	week, err := svc.Week(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, week.Days, WeekDays)
	for _, day := range week.Days {
		assert.True(t, day.Record.IsComplete(), "day %s", day.Record.Date().Format(models.DateLayout))
	}
	assert.Equal(t, WeekDays, week.ValidDays)
	assert.Len(t, week.Averages, len(models.AllMetricTypes))
}
