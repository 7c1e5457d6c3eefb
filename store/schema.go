package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version
const SchemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS calibrations (
    id TEXT PRIMARY KEY,
    batch TEXT NOT NULL,
    station TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    routing INTEGER NOT NULL,
    objective TEXT NOT NULL,
    score REAL,
    nse REAL,
    kge REAL,
    rmse REAL,
    bias REAL,
    evaluations INTEGER NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    params BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calibrations_station ON calibrations(station, created_at);
CREATE INDEX IF NOT EXISTS idx_calibrations_batch ON calibrations(batch);
`

// InitSchema creates the tables when missing and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case !version.Valid:
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_version (version, applied_at) VALUES (?, strftime('%s','now'))`, SchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case version.Int64 > SchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version.Int64, SchemaVersion)
	}
	return nil
}
