// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for samples and per-type authorization grants.
package storage

import "fmt"

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id TEXT PRIMARY KEY,
		metric_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		batch TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS authorizations (
		metric_type TEXT PRIMARY KEY,
		granted_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_type_recorded ON samples(metric_type, recorded_at);
	CREATE INDEX IF NOT EXISTS idx_samples_recorded ON samples(recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_samples_source ON samples(source, metric_type);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before batches were recorded lack the column.
	if err := d.ensureColumn("samples", "batch", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}
	_, err := d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_samples_batch ON samples(batch)`)
	return err
}

// ensureColumn adds column to table unless it already exists.
func (d *DB) ensureColumn(table, column, decl string) error {
	rows, err := d.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}

	_, err = d.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
	if err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}
