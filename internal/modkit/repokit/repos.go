// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"fmt"

	"reviewpulse/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)


// Dialects maps each warehouse dialect to its repo binder
type Dialects[T any] struct {
	Postgres Binder[T]
	SQLite   Binder[T]
}

// Pick returns the binder registered for d
func (ds Dialects[T]) Pick(d store.Dialect) (Binder[T], error) {
	var b Binder[T]
	switch d {
	case store.DialectPostgres:
		b = ds.Postgres
	case store.DialectSQLite:
		b = ds.SQLite
	}
	if b == nil {
		return nil, fmt.Errorf("repokit: no repo for warehouse dialect %q", d)
	}
	return b, nil
}
