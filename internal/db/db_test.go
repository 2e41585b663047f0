package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Paths(t *testing.T) {
	tests := []struct {
		name string
		rel  []string
	}{
		{"Flat", []string{"audit.db"}},
		{"Nested", []string{"config", "hwd", "audit.db"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(append([]string{t.TempDir()}, tt.rel...)...)
			db, err := New(path)
			if err != nil {
				t.Fatalf("New(%s) failed: %v", path, err)
			}
			defer db.Close()

			if db.Path() != path {
				t.Errorf("Path() = %s, want %s", db.Path(), path)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("database file missing: %v", err)
			}
		})
	}
}

func TestMigrate_AppliesEverySchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	version, err := db.SchemaVersion(ctx)
	if err != nil || version != len(migrations) {
		t.Fatalf("SchemaVersion() = %d, %v; want %d", version, err, len(migrations))
	}

	for _, table := range []string{"toggle_events", "pass_runs"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening an up to date database failed: %v", err)
	}
	defer reopened.Close()
	if version, _ := reopened.SchemaVersion(ctx); version != len(migrations) {
		t.Errorf("SchemaVersion() after reopen = %d", version)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := New(path); err == nil {
		t.Error("a schema from a newer binary should be rejected")
	}
}

func TestJournalMode(t *testing.T) {
	db := newTestDB(t)

	var mode string
	if err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %s, want wal", mode)
	}
}

func TestClose(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, err := db.QueryContext(context.Background(), "SELECT 1"); err == nil {
		t.Error("queries after Close should fail")
	}
}
