// Package repo appends topic analysis records to the warehouse or ClickHouse
package repo

import (
	"context"
	"fmt"
	"time"

	"reviewpulse/internal/core/sentiment"
	"reviewpulse/internal/modkit/repokit"
	"reviewpulse/internal/services/analysis/domain"

	sq "github.com/Masterminds/squirrel"
)

// sqliteInsertChunk keeps one multi row insert under the bound parameter limit
const sqliteInsertChunk = 100

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

// InsertRecords ships the records as parallel arrays in one statement
func (r *pgQueries) InsertRecords(ctx context.Context, recs []sentiment.Record) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	var (
		ids     = make([]string, len(recs))
		reviews = make([]string, len(recs))
		topics  = make([]string, len(recs))
		notes   = make([]float64, len(recs))
		labels  = make([]string, len(recs))
		scores  = make([]float64, len(recs))
		created = make([]time.Time, len(recs))
	)
	for i, rc := range recs {
		ids[i], reviews[i], topics[i] = rc.ID, rc.ReviewID, rc.TopicID
		notes[i], labels[i], scores[i], created[i] = rc.ScoreSentiment, rc.LabelSentiment, rc.Score01, rc.CreatedAt
	}
	tag, err := r.q.Exec(ctx, `
INSERT INTO topic_analysis (id, review_id, topic_id, score_sentiment, label_sentiment, score_0_1, created_at)
SELECT * FROM UNNEST($1::uuid[], $2::text[], $3::text[], $4::float8[], $5::text[], $6::float8[], $7::timestamptz[])`,
		ids, reviews, topics, notes, labels, scores, created)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sqliteQueries) InsertRecords(ctx context.Context, recs []sentiment.Record) (int64, error) {
	var total int64
	for start := 0; start < len(recs); start += sqliteInsertChunk {
		end := min(start+sqliteInsertChunk, len(recs))
		ins := sq.Insert("topic_analysis").
			Columns("id", "review_id", "topic_id", "score_sentiment", "label_sentiment", "score_0_1", "created_at")
		for _, rc := range recs[start:end] {
			ins = ins.Values(rc.ID, rc.ReviewID, rc.TopicID, rc.ScoreSentiment, rc.LabelSentiment, rc.Score01,
				rc.CreatedAt.UTC().Format(time.RFC3339Nano))
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return total, fmt.Errorf("build analysis insert: %w", err)
		}
		tag, err := r.q.Exec(ctx, query, args...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
