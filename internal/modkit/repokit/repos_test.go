package repokit

import (
	"testing"

	"reviewpulse/internal/platform/store"
)

func TestDialects_Pick(t *testing.T) {
	t.Parallel()
	ds := Dialects[string]{
		Postgres: BindFunc[string](func(Queryer) string { return "pg" }),
		SQLite:   BindFunc[string](func(Queryer) string { return "sqlite" }),
	}
	for d, want := range map[store.Dialect]string{store.DialectPostgres: "pg", store.DialectSQLite: "sqlite"} {
		b, err := ds.Pick(d)
		if err != nil {
			t.Fatalf("Pick(%q): %v", d, err)
		}
		if got := b.Bind(nil); got != want {
			t.Fatalf("Pick(%q) bound %q", d, got)
		}
	}
	if _, err := ds.Pick(store.DialectNone); err == nil {
		t.Fatalf("expected error for missing warehouse")
	}
	if _, err := (Dialects[string]{Postgres: ds.Postgres}).Pick(store.DialectSQLite); err == nil {
		t.Fatalf("expected error for unregistered dialect")
	}
}
