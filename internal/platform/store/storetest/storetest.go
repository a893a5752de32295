// Package storetest opens throwaway warehouses for repository and service tests
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/platform/store/sqlite"

	"github.com/jmoiron/sqlx"
)

// SQLite opens a schema-initialised file warehouse under t.TempDir and closes it on cleanup
func SQLite(t testing.TB) (store.TxRunner, *sqlx.DB) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.Config{Path: filepath.Join(t.TempDir(), "warehouse.db")})
	if err != nil {
		t.Fatalf("open sqlite warehouse: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.NewSQLite(db), db
}

// Count returns SELECT COUNT(*) FROM table
func Count(t testing.TB, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// SeedTopics inserts label to id rows into topics
func SeedTopics(t testing.TB, db *sqlx.DB, byLabel map[string]string) {
	t.Helper()
	for label, id := range byLabel {
		if _, err := db.Exec(`INSERT OR REPLACE INTO topics (topic_id, topic_label) VALUES (?, ?)`, id, label); err != nil {
			t.Fatalf("seed topic %q: %v", label, err)
		}
	}
}
