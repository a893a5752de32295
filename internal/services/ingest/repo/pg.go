package repo

import (
	"context"
	"fmt"
	"time"

	"reviewpulse/internal/modkit/repokit"
	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/services/ingest/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG        struct{}
	pgQueries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &pgQueries{q: q} }

func (r *pgQueries) TruncateStaging(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `TRUNCATE review_staging RESTART IDENTITY`)
	return err
}

// LoadStaging ships the batch as parallel arrays in one statement
func (r *pgQueries) LoadStaging(ctx context.Context, rows []domain.Review) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var (
		ids     = make([]string, len(rows))
		ratings = make([]*int16, len(rows))
		content = make([]string, len(rows))
		authors = make([]string, len(rows))
		pubs    = make([]time.Time, len(rows))
		scrapes = make([]time.Time, len(rows))
	)
	for i, rv := range rows {
		ids[i] = rv.ReviewID
		ratings[i] = ratingArg(rv.Rating)
		content[i] = rv.Content
		authors[i] = rv.Author
		pubs[i] = rv.PublicationDate.UTC()
		scrapes[i] = rv.ScrapeDate.UTC()
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO review_staging (review_id, rating, content, author, publication_date, scrape_date)
		SELECT t.review_id, t.rating, t.content, t.author, t.publication_date, t.scrape_date
		FROM UNNEST($1::text[], $2::smallint[], $3::text[], $4::text[], $5::date[], $6::date[])
		     WITH ORDINALITY AS t(review_id, rating, content, author, publication_date, scrape_date, ord)
		ORDER BY t.ord
	`, ids, ratings, content, authors, pubs, scrapes)
	if err != nil {
		return 0, fmt.Errorf("load staging: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MergeStaging keeps the earliest scraped copy of each key within the batch
// and skips keys the store already holds. NULL content compares equal to NULL
func (r *pgQueries) MergeStaging(ctx context.Context) (int64, error) {
	n, err := store.ExecCount(ctx, r.q, `
		INSERT INTO reviews (review_id, rating, content, author, publication_date, scrape_date)
		SELECT s.review_id, s.rating, s.content, s.author, s.publication_date, s.scrape_date
		FROM (
			SELECT DISTINCT ON (author, content, publication_date) *
			FROM review_staging
			ORDER BY author, content, publication_date, scrape_date, staging_id
		) s
		WHERE NOT EXISTS (
			SELECT 1 FROM reviews r
			WHERE r.author = s.author
			  AND r.content IS NOT DISTINCT FROM s.content
			  AND r.publication_date = s.publication_date
		)
		ORDER BY s.staging_id
	`)
	if err != nil {
		return 0, fmt.Errorf("merge staging: %w", err)
	}
	return n, nil
}

func (r *pgQueries) DuplicateRowIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT row_id FROM (
			SELECT row_id,
			       ROW_NUMBER() OVER (
			           PARTITION BY author, content, publication_date
			           ORDER BY scrape_date, row_id
			       ) AS rn
			FROM reviews
		) ranked
		WHERE rn > 1
		ORDER BY row_id
	`)
	if err != nil {
		return nil, fmt.Errorf("rank duplicates: %w", err)
	}
	return scanIDs(rows)
}

func (r *pgQueries) DeleteRows(ctx context.Context, rowIDs []int64) (int64, error) {
	if len(rowIDs) == 0 {
		return 0, nil
	}
	n, err := store.ExecCount(ctx, r.q, `DELETE FROM reviews WHERE row_id = ANY($1::bigint[])`, rowIDs)
	if err != nil {
		return 0, fmt.Errorf("delete duplicates: %w", err)
	}
	return n, nil
}

func (r *pgQueries) Verbatims(ctx context.Context, day time.Time) ([]domain.Verbatim, error) {
	rows, err := r.q.Query(ctx, `
		SELECT review_id, content
		FROM reviews
		WHERE content IS NOT NULL AND content <> '' AND scrape_date = $1::date
		ORDER BY row_id
	`, day.UTC())
	if err != nil {
		return nil, fmt.Errorf("read verbatims: %w", err)
	}
	return scanVerbatims(rows)
}

func scanIDs(rows repokit.Rows) ([]int64, error) {
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanVerbatims(rows repokit.Rows) ([]domain.Verbatim, error) {
	defer rows.Close()
	var out []domain.Verbatim
	for rows.Next() {
		var v domain.Verbatim
		if err := rows.Scan(&v.ReviewID, &v.Content); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
