// ABOUTME: Call-counting Store double for provider tests.
// ABOUTME: Returns canned aggregates and configurable errors per operation.
package provider

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
)

type fakeStore struct {
	mu sync.Mutex

	unavailable bool
	values      map[models.MetricType]float64
	authErr     error
	deleteErr   error
	saveErr     error
	aggErr      error

	authCalls   int
	deleteCalls int
	saveCalls   int
	saved       []*models.Sample
	windows     [][2]time.Time
}

var _ storage.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[models.MetricType]float64)}
}

func (f *fakeStore) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.unavailable
}

func (f *fakeStore) RequestAuthorization(ctx context.Context, types []models.MetricType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authCalls++
	return f.authErr
}

func (f *fakeStore) SaveSamples(ctx context.Context, samples []*models.Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, samples...)
	return nil
}

func (f *fakeStore) DeleteSamples(ctx context.Context, source string, types []models.MetricType) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return 0, storage.ErrNoSamples
}

func (f *fakeStore) Aggregate(ctx context.Context, mt models.MetricType, start, end time.Time) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, [2]time.Time{start, end})
	if f.aggErr != nil {
		return 0, f.aggErr
	}
	v, ok := f.values[mt]
	if !ok {
		return 0, storage.ErrNoSamples
	}
	return v, nil
}

func (f *fakeStore) ListSamples(ctx context.Context, filter storage.SampleFilter) ([]*models.Sample, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) counts() (auth, del, save int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authCalls, f.deleteCalls, f.saveCalls
}
