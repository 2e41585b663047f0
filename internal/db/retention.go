package db

import (
	"context"
	"fmt"
	"time"
)

// PruneBefore deletes audit rows older than cutoff and returns how many
// rows were removed. The file is vacuumed when anything was deleted.
func (db *DB) PruneBefore(cutoff time.Time) (int64, error) {
	tables := []string{"toggle_events", "pass_runs"}

	var removed int64
	for _, table := range tables {
		result, err := db.ExecContext(context.Background(),
			"DELETE FROM "+table+" WHERE timestamp < ?",
			cutoff.UTC().Format(sqlTimeLayout),
		)
		if err != nil {
			return removed, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		n, err := result.RowsAffected()
		if err == nil {
			removed += n
		}
	}

	if removed > 0 {
		if err := db.Vacuum(); err != nil {
			return removed, fmt.Errorf("failed to vacuum: %w", err)
		}
	}
	return removed, nil
}
