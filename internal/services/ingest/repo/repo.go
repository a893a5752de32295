// Package repo holds the warehouse statements for review ingestion, one binder per dialect
package repo

import (
	"reviewpulse/internal/modkit/repokit"
	"reviewpulse/internal/services/ingest/domain"
)

// Dialects returns the binder set the module picks from
func Dialects() repokit.Dialects[domain.StorageRepo] {
	return repokit.Dialects[domain.StorageRepo]{
		Postgres: NewPG(),
		SQLite:   NewSQLite(),
	}
}

func ratingArg(r int) *int16 {
	if r <= 0 {
		return nil
	}
	v := int16(r)
	return &v
}
