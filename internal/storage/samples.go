// ABOUTME: Sample and authorization operations for SQLite storage.
// ABOUTME: Implements the Store interface methods on DB.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// conn returns the open handle, or ErrUnavailable after Close.
func (d *DB) conn() (*sql.DB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed || d.db == nil {
		return nil, ErrUnavailable
	}
	return d.db, nil
}

// RequestAuthorization records a grant for each type.
func (d *DB) RequestAuthorization(ctx context.Context, types []models.MetricType) error {
	db, err := d.conn()
	if err != nil {
		return err
	}
	now := FormatTime(time.Now())
	for _, mt := range types {
		if !models.IsValidMetricType(string(mt)) {
			return fmt.Errorf("request authorization: unknown metric type %q", mt)
		}
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO authorizations (metric_type, granted_at) VALUES (?, ?)`,
			string(mt), now)
		if err != nil {
			return fmt.Errorf("request authorization: %w", err)
		}
	}
	return nil
}

// authorized returns the set of granted metric types.
func (d *DB) authorized(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}) (map[models.MetricType]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT metric_type FROM authorizations`)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	defer rows.Close()

	granted := make(map[models.MetricType]bool)
	for rows.Next() {
		var mt string
		if err := rows.Scan(&mt); err != nil {
			return nil, fmt.Errorf("scan authorization: %w", err)
		}
		granted[models.MetricType(mt)] = true
	}
	return granted, rows.Err()
}

// SaveSamples inserts samples in a single transaction.
func (d *DB) SaveSamples(ctx context.Context, samples []*models.Sample) error {
	db, err := d.conn()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save samples: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	granted, err := d.authorized(ctx, tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO samples (id, metric_type, value, unit, recorded_at, source, batch, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, s := range samples {
		if !granted[s.MetricType] {
			return fmt.Errorf("save sample %s: %w: %s", s.ID, ErrNotAuthorized, s.MetricType)
		}
		_, err := tx.ExecContext(ctx, query,
			s.ID.String(),
			string(s.MetricType),
			s.Value,
			s.Unit,
			FormatTime(s.RecordedAt),
			s.Source,
			s.Batch,
			FormatTime(s.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("save sample %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save samples: %w", err)
	}
	d.log.Debug().Int("count", len(samples)).Msg("samples saved")
	return nil
}

// DeleteSamples removes samples written by source.
func (d *DB) DeleteSamples(ctx context.Context, source string, types []models.MetricType) (int, error) {
	db, err := d.conn()
	if err != nil {
		return 0, err
	}

	query := `DELETE FROM samples WHERE source = ?`
	args := []interface{}{source}
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, mt := range types {
			placeholders[i] = "?"
			args = append(args, string(mt))
		}
		query += " AND metric_type IN (" + strings.Join(placeholders, ", ") + ")"
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete samples: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete samples: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("delete samples from %q: %w", source, ErrNoSamples)
	}
	d.log.Debug().Str("source", source).Int64("count", affected).Msg("samples deleted")
	return int(affected), nil
}

// Aggregate sums or averages samples of metricType in [start, end).
func (d *DB) Aggregate(ctx context.Context, metricType models.MetricType, start, end time.Time) (float64, error) {
	db, err := d.conn()
	if err != nil {
		return 0, err
	}

	query := `
		SELECT COUNT(*), COALESCE(SUM(value), 0), COALESCE(AVG(value), 0)
		FROM samples
		WHERE metric_type = ? AND recorded_at >= ? AND recorded_at < ?
	`
	var count int
	var sum, avg float64
	err = db.QueryRowContext(ctx, query, string(metricType), FormatTime(start), FormatTime(end)).
		Scan(&count, &sum, &avg)
	if err != nil {
		return 0, fmt.Errorf("aggregate %s: %w", metricType, err)
	}
	if count == 0 {
		return 0, fmt.Errorf("aggregate %s: %w", metricType, ErrNoSamples)
	}
	if metricType.Aggregation() == models.AggregateSum {
		return sum, nil
	}
	return avg, nil
}

// ListSamples retrieves samples matching filter, most recent first.
func (d *DB) ListSamples(ctx context.Context, filter SampleFilter) ([]*models.Sample, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, metric_type, value, unit, recorded_at, source, batch, created_at
		FROM samples
		WHERE 1 = 1
	`
	var args []interface{}
	if filter.MetricType != nil {
		query += " AND metric_type = ?"
		args = append(args, string(*filter.MetricType))
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.Batch != "" {
		query += " AND batch = ?"
		args = append(args, filter.Batch)
	}
	if !filter.Since.IsZero() {
		query += " AND recorded_at >= ?"
		args = append(args, FormatTime(filter.Since))
	}
	if !filter.Until.IsZero() {
		query += " AND recorded_at < ?"
		args = append(args, FormatTime(filter.Until))
	}
	query += " ORDER BY recorded_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// scanSamples scans multiple rows into a slice of Samples.
func scanSamples(rows *sql.Rows) ([]*models.Sample, error) {
	var samples []*models.Sample

	for rows.Next() {
		var s models.Sample
		var idStr, metricType, recordedAt, createdAt string

		err := rows.Scan(&idStr, &metricType, &s.Value, &s.Unit, &recordedAt, &s.Source, &s.Batch, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}

		s.ID, _ = uuid.Parse(idStr)
		s.MetricType = models.MetricType(metricType)
		s.RecordedAt, _ = ParseTime(recordedAt)
		s.CreatedAt, _ = ParseTime(createdAt)

		samples = append(samples, &s)
	}

	return samples, rows.Err()
}
