package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// InsertToggleEvent records one LED toggle write attempt.
func (db *DB) InsertToggleEvent(event *models.ToggleEvent) error {
	query := `
		INSERT INTO toggle_events (timestamp, session_id, unit, desired, success, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.Format(sqlTimeLayout),
		event.SessionID,
		event.Unit,
		event.Desired,
		event.Success,
		nullString(event.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert toggle event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		event.ID = id
	}

	return nil
}

// GetRecentToggleEvents returns the most recent toggle attempts, newest first.
func (db *DB) GetRecentToggleEvents(limit int) ([]models.ToggleEvent, error) {
	query := `
		SELECT id, timestamp, session_id, unit, desired, success, error
		FROM toggle_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query toggle events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.ToggleEvent
	for rows.Next() {
		var event models.ToggleEvent
		var errStr sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.SessionID,
			&event.Unit,
			&event.Desired,
			&event.Success,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan toggle event: %w", err)
		}

		event.Error = errStr.String
		events = append(events, event)
	}

	return events, rows.Err()
}

// InsertPassRun records the outcome of one refresh pass.
func (db *DB) InsertPassRun(run *models.PassRun) error {
	query := `
		INSERT INTO pass_runs (timestamp, duration_ms, record_count, error)
		VALUES (?, ?, ?, ?)
	`

	timestamp := run.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.Format(sqlTimeLayout),
		run.DurationMs,
		run.RecordCount,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pass run: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		run.ID = id
	}

	return nil
}

// GetRecentPassRuns returns the most recent refresh passes, newest first.
func (db *DB) GetRecentPassRuns(limit int) ([]models.PassRun, error) {
	query := `
		SELECT id, timestamp, duration_ms, record_count, error
		FROM pass_runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pass runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.PassRun
	for rows.Next() {
		var run models.PassRun
		var errStr sql.NullString

		if err := rows.Scan(&run.ID, &run.Timestamp, &run.DurationMs, &run.RecordCount, &errStr); err != nil {
			return nil, fmt.Errorf("failed to scan pass run: %w", err)
		}

		run.Error = errStr.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ToggleFailureCounts returns the number of failed writes per unit.
func (db *DB) ToggleFailureCounts() (map[string]int, error) {
	query := `
		SELECT unit, COUNT(*)
		FROM toggle_events
		WHERE success = 0
		GROUP BY unit
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query toggle failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var unit string
		var n int
		if err := rows.Scan(&unit, &n); err != nil {
			return nil, fmt.Errorf("failed to scan toggle failures: %w", err)
		}
		counts[unit] = n
	}

	return counts, rows.Err()
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
