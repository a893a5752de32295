// Package repo reads the topics table, one binder per dialect
package repo

import (
	"context"
	"fmt"

	"reviewpulse/internal/modkit/repokit"
	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/services/topics/domain"

	sq "github.com/Masterminds/squirrel"
)

type (
	// PG is a postgres binder for domain.StorageRepo
	PG        struct{}
	pgQueries struct{ q repokit.Queryer }

	// SQLite is a file warehouse binder for domain.StorageRepo
	SQLite        struct{}
	sqliteQueries struct{ q repokit.Queryer }
)

// Dialects returns the binder set the module picks from
func Dialects() repokit.Dialects[domain.StorageRepo] {
	return repokit.Dialects[domain.StorageRepo]{Postgres: PG{}, SQLite: SQLite{}}
}

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &pgQueries{q: q} }

// Bind implements repokit.Binder
func (SQLite) Bind(q repokit.Queryer) domain.StorageRepo { return &sqliteQueries{q: q} }

func (r *pgQueries) List(ctx context.Context) ([]domain.Topic, error) {
	return store.Many(ctx, r.q, scanTopic, `SELECT topic_id, topic_label FROM topics ORDER BY topic_id`)
}

func (r *sqliteQueries) List(ctx context.Context) ([]domain.Topic, error) {
	query, args, err := sq.Select("topic_id", "topic_label").From("topics").OrderBy("topic_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topics select: %w", err)
	}
	return store.Many(ctx, r.q, scanTopic, query, args...)
}

func scanTopic(row store.Row) (domain.Topic, error) {
	var t domain.Topic
	err := row.Scan(&t.ID, &t.Label)
	return t, err
}
