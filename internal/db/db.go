// Package db manages the local audit database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// sqlite driver
	_ "modernc.org/sqlite"
)

const openTimeout = 5 * time.Second

// pragmas are applied once on the single pooled connection.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// migrations run in order. PRAGMA user_version stores how many have been
// applied, so each one runs exactly once per database file.
var migrations = []string{
	`CREATE TABLE toggle_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL,
		unit TEXT NOT NULL,
		desired INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error TEXT
	);
	CREATE INDEX idx_toggle_events_timestamp ON toggle_events(timestamp);
	CREATE INDEX idx_toggle_events_unit ON toggle_events(unit);`,

	`CREATE TABLE pass_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		duration_ms INTEGER DEFAULT 0,
		record_count INTEGER DEFAULT 0,
		error TEXT
	);
	CREATE INDEX idx_pass_runs_timestamp ON pass_runs(timestamp);`,
}

// DB is the audit log of refresh passes and toggle writes.
type DB struct {
	*sql.DB
	path string
}

// New opens the audit database at path, creating its directory and
// bringing the schema up to date.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	db := &DB{DB: sqlDB, path: path}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// SchemaVersion returns the number of applied migrations.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (db *DB) migrate(ctx context.Context) error {
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		// PRAGMA does not accept bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum reclaims the space left by pruned rows.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
