// ABOUTME: Store implementation over KV keys for samples and authorizations.
// ABOUTME: Uses type-prefixed, time-ordered keys and client-side filtering.
package charm

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
)

// Compile-time check that Client implements storage.Store.
var _ storage.Store = (*Client)(nil)

// sampleKey builds sample:<type>:<unix-nanos>:<uuid>. Nanos are zero padded so
// key order within a type is chronological.
func sampleKey(s *models.Sample) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", SamplePrefix, s.MetricType, s.RecordedAt.UnixNano(), s.ID))
}

func authKey(mt models.MetricType) []byte {
	return []byte(AuthPrefix + string(mt))
}

// parseSampleKey extracts the metric type and recorded time from a sample key.
func parseSampleKey(key []byte) (models.MetricType, time.Time, bool) {
	parts := strings.SplitN(strings.TrimPrefix(string(key), SamplePrefix), ":", 3)
	if len(parts) != 3 {
		return "", time.Time{}, false
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return models.MetricType(parts[0]), time.Unix(0, nanos).UTC(), true
}

// ready returns ErrUnavailable once the client is closed or ctx is done.
func (c *Client) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.kv == nil {
		return storage.ErrUnavailable
	}
	return nil
}

// Available reports whether the KV database is open.
func (c *Client) Available() bool {
	return c.ready(context.Background()) == nil
}

// RequestAuthorization records a grant per type. A read-only database cannot
// record grants, so the request is denied.
func (c *Client) RequestAuthorization(ctx context.Context, types []models.MetricType) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	if c.IsReadOnly() {
		return fmt.Errorf("request authorization: %w: database is read-only", storage.ErrAuthorizationDenied)
	}

	now := []byte(storage.FormatTime(time.Now()))
	var keys, values [][]byte
	for _, mt := range types {
		if !models.IsValidMetricType(string(mt)) {
			return fmt.Errorf("request authorization: unknown metric type %q", mt)
		}
		if _, err := c.get(authKey(mt)); err == nil {
			continue
		}
		keys = append(keys, authKey(mt))
		values = append(values, now)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.setMany(keys, values); err != nil {
		return fmt.Errorf("request authorization: %w", err)
	}
	return nil
}

// authorized returns the set of granted metric types.
func (c *Client) authorized() (map[models.MetricType]bool, error) {
	keys, err := c.keysByPrefix(AuthPrefix)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	granted := make(map[models.MetricType]bool, len(keys))
	for _, key := range keys {
		granted[models.MetricType(strings.TrimPrefix(string(key), AuthPrefix))] = true
	}
	return granted, nil
}

// SaveSamples stores samples after checking every type is authorized.
func (c *Client) SaveSamples(ctx context.Context, samples []*models.Sample) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	granted, err := c.authorized()
	if err != nil {
		return err
	}

	keys := make([][]byte, 0, len(samples))
	values := make([][]byte, 0, len(samples))
	for _, s := range samples {
		if !granted[s.MetricType] {
			return fmt.Errorf("save sample %s: %w: %s", s.ID, storage.ErrNotAuthorized, s.MetricType)
		}
		data, err := marshalJSON(s)
		if err != nil {
			return fmt.Errorf("marshal sample: %w", err)
		}
		keys = append(keys, sampleKey(s))
		values = append(values, data)
	}

	if err := c.setMany(keys, values); err != nil {
		return fmt.Errorf("save samples: %w", err)
	}
	c.log.Debug().Int("count", len(samples)).Msg("samples saved")
	return nil
}

// loadSamples reads every sample whose key passes keep.
func (c *Client) loadSamples(prefix string, keep func(models.MetricType, time.Time) bool) ([]*models.Sample, [][]byte, error) {
	keys, err := c.keysByPrefix(prefix)
	if err != nil {
		return nil, nil, err
	}

	var samples []*models.Sample
	var matched [][]byte
	for _, key := range keys {
		mt, at, ok := parseSampleKey(key)
		if !ok || !keep(mt, at) {
			continue
		}
		data, err := c.get(key)
		if err != nil {
			continue // Key vanished between Keys and Get
		}
		s, err := unmarshalJSON[models.Sample](data)
		if err != nil {
			continue // Skip invalid entries
		}
		samples = append(samples, s)
		matched = append(matched, key)
	}
	return samples, matched, nil
}

// DeleteSamples removes samples written by source.
func (c *Client) DeleteSamples(ctx context.Context, source string, types []models.MetricType) (int, error) {
	if err := c.ready(ctx); err != nil {
		return 0, err
	}

	wanted := make(map[models.MetricType]bool, len(types))
	for _, mt := range types {
		wanted[mt] = true
	}
	samples, keys, err := c.loadSamples(SamplePrefix, func(mt models.MetricType, _ time.Time) bool {
		return len(wanted) == 0 || wanted[mt]
	})
	if err != nil {
		return 0, fmt.Errorf("delete samples: %w", err)
	}

	var doomed [][]byte
	for i, s := range samples {
		if s.Source == source {
			doomed = append(doomed, keys[i])
		}
	}
	if len(doomed) == 0 {
		return 0, fmt.Errorf("delete samples from %q: %w", source, storage.ErrNoSamples)
	}
	if err := c.deleteMany(doomed); err != nil {
		return 0, fmt.Errorf("delete samples: %w", err)
	}
	c.log.Debug().Str("source", source).Int("count", len(doomed)).Msg("samples deleted")
	return len(doomed), nil
}

// Aggregate sums or averages samples of metricType in [start, end).
func (c *Client) Aggregate(ctx context.Context, metricType models.MetricType, start, end time.Time) (float64, error) {
	if err := c.ready(ctx); err != nil {
		return 0, err
	}

	samples, _, err := c.loadSamples(SamplePrefix+string(metricType)+":", func(mt models.MetricType, at time.Time) bool {
		return mt == metricType && !at.Before(start) && at.Before(end)
	})
	if err != nil {
		return 0, fmt.Errorf("aggregate %s: %w", metricType, err)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return storage.Combine(metricType, values)
}

// ListSamples retrieves samples matching filter, most recent first.
func (c *Client) ListSamples(ctx context.Context, filter storage.SampleFilter) ([]*models.Sample, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	prefix := SamplePrefix
	if filter.MetricType != nil {
		prefix += string(*filter.MetricType) + ":"
	}
	all, _, err := c.loadSamples(prefix, func(models.MetricType, time.Time) bool { return true })
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	var samples []*models.Sample
	for _, s := range all {
		if filter.Matches(s) {
			samples = append(samples, s)
		}
	}

	// Sort by RecordedAt descending
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].RecordedAt.After(samples[j].RecordedAt)
	})

	// Apply limit
	if filter.Limit > 0 && len(samples) > filter.Limit {
		samples = samples[:filter.Limit]
	}

	return samples, nil
}
