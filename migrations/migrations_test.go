package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reviewpulse/internal/platform/store"
)

func TestScripts(t *testing.T) {
	t.Parallel()

	pg, err := Postgres()
	if err != nil || len(pg) == 0 {
		t.Fatalf("postgres scripts: %v", err)
	}
	for _, table := range []string{"reviews", "review_staging", "topics", "topic_analysis"} {
		if !strings.Contains(pg[0], "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("postgres schema misses %s", table)
		}
	}

	ch, err := ClickHouse()
	if err != nil || len(ch) != 1 || !strings.Contains(ch[0], "MergeTree") {
		t.Fatalf("clickhouse scripts: %v %v", ch, err)
	}
}

type execRecorder struct {
	store.TxRunner
	sqls []string
	err  error
}

func (e *execRecorder) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	e.sqls = append(e.sqls, sql)
	return nil, e.err
}

func TestApply(t *testing.T) {
	t.Parallel()

	if err := Apply(context.Background(), nil); err != nil {
		t.Fatalf("nil store: %v", err)
	}

	rec := &execRecorder{}
	if err := Apply(context.Background(), &store.Store{WH: rec, Dialect: store.DialectSQLite}); err != nil || len(rec.sqls) != 0 {
		t.Fatalf("sqlite should be skipped, ran %d scripts err=%v", len(rec.sqls), err)
	}

	if err := Apply(context.Background(), &store.Store{WH: rec, Dialect: store.DialectPostgres}); err != nil {
		t.Fatalf("postgres: %v", err)
	}
	if len(rec.sqls) != 1 || !strings.Contains(rec.sqls[0], "review_staging") {
		t.Fatalf("postgres scripts not executed: %d", len(rec.sqls))
	}
}

func TestApply_FailureNamesScript(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied for schema public")
	rec := &execRecorder{err: boom}
	err := Apply(context.Background(), &store.Store{WH: rec, Dialect: store.DialectPostgres})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "postgres script 1") {
		t.Fatalf("expected wrapped script error, got %v", err)
	}
	if len(rec.sqls) != 1 {
		t.Fatalf("apply must stop at the first failing script, ran %d", len(rec.sqls))
	}
}

func TestScripts_Idempotent(t *testing.T) {
	t.Parallel()

	pg, err := Postgres()
	if err != nil {
		t.Fatal(err)
	}
	ch, err := ClickHouse()
	if err != nil {
		t.Fatal(err)
	}
	for _, sql := range append(pg, ch...) {
		for _, line := range strings.Split(sql, "\n") {
			l := strings.ToUpper(strings.TrimSpace(line))
			if (strings.HasPrefix(l, "CREATE TABLE") || strings.HasPrefix(l, "CREATE INDEX") || strings.HasPrefix(l, "CREATE UNIQUE INDEX")) && !strings.Contains(l, "IF NOT EXISTS") {
				t.Fatalf("statement is not rerunnable: %s", line)
			}
		}
	}
}
