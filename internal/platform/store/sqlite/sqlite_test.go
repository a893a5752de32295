package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_AppliesSchemaIdempotently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wh.db")

	for i := 0; i < 2; i++ {
		db, err := Open(ctx, Config{Path: path})
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		var n int
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('reviews','review_staging','topics','topic_analysis')`); err != nil {
			t.Fatalf("count tables: %v", err)
		}
		if n != 4 {
			t.Fatalf("tables = %d, want 4", n)
		}
		_ = db.Close()
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{Path: "  "}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestOpen_SkipSchema(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "bare.db"), SkipSchema: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("tables = %d, want 0", n)
	}
}
