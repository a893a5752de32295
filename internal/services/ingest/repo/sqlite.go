package repo

import (
	"context"
	"fmt"
	"time"

	"reviewpulse/internal/modkit/repokit"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/services/ingest/domain"

	sq "github.com/Masterminds/squirrel"
)

// sqliteLoadChunk keeps one multi row insert under the bound parameter limit
const sqliteLoadChunk = 150

var lite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type (
	// SQLite is a file warehouse binder for domain.StorageRepo
	SQLite        struct{}
	sqliteQueries struct{ q repokit.Queryer }
)

// NewSQLite returns a sqlite binder for domain.StorageRepo
func NewSQLite() repokit.Binder[domain.StorageRepo] { return SQLite{} }

// Bind implements repokit.Binder
func (SQLite) Bind(q repokit.Queryer) domain.StorageRepo { return &sqliteQueries{q: q} }

func (r *sqliteQueries) TruncateStaging(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM review_staging`)
	return err
}

func (r *sqliteQueries) LoadStaging(ctx context.Context, rows []domain.Review) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += sqliteLoadChunk {
		end := min(start+sqliteLoadChunk, len(rows))
		ins := lite.Insert("review_staging").
			Columns("review_id", "rating", "content", "author", "publication_date", "scrape_date")
		for _, rv := range rows[start:end] {
			ins = ins.Values(rv.ReviewID, ratingArg(rv.Rating), rv.Content, rv.Author,
				ptime.FormatDay(rv.PublicationDate), ptime.FormatDay(rv.ScrapeDate))
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return total, fmt.Errorf("build staging insert: %w", err)
		}
		tag, err := r.q.Exec(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("load staging rows %d..%d: %w", start, end, err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// MergeStaging mirrors the postgres statement with a window in place of DISTINCT ON
func (r *sqliteQueries) MergeStaging(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO reviews (review_id, rating, content, author, publication_date, scrape_date)
		SELECT s.review_id, s.rating, s.content, s.author, s.publication_date, s.scrape_date
		FROM (
			SELECT st.*, st.rowid AS load_order,
			       ROW_NUMBER() OVER (
			           PARTITION BY st.author, st.content, st.publication_date
			           ORDER BY st.scrape_date, st.rowid
			       ) AS rn
			FROM review_staging st
		) s
		WHERE s.rn = 1
		  AND NOT EXISTS (
			SELECT 1 FROM reviews r
			WHERE r.author = s.author
			  AND r.content IS s.content
			  AND r.publication_date = s.publication_date
		)
		ORDER BY s.load_order
	`)
	if err != nil {
		return 0, fmt.Errorf("merge staging: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *sqliteQueries) DuplicateRowIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT row_id FROM (
			SELECT row_id,
			       ROW_NUMBER() OVER (
			           PARTITION BY author, content, publication_date
			           ORDER BY scrape_date, row_id
			       ) AS rn
			FROM reviews
		)
		WHERE rn > 1
		ORDER BY row_id
	`)
	if err != nil {
		return nil, fmt.Errorf("rank duplicates: %w", err)
	}
	return scanIDs(rows)
}

func (r *sqliteQueries) DeleteRows(ctx context.Context, rowIDs []int64) (int64, error) {
	if len(rowIDs) == 0 {
		return 0, nil
	}
	query, args, err := lite.Delete("reviews").Where(sq.Eq{"row_id": rowIDs}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete duplicates: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *sqliteQueries) Verbatims(ctx context.Context, day time.Time) ([]domain.Verbatim, error) {
	query, args, err := lite.Select("review_id", "content").
		From("reviews").
		Where("content IS NOT NULL AND content <> ''").
		Where(sq.Eq{"scrape_date": ptime.FormatDay(day)}).
		OrderBy("row_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build verbatims query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read verbatims: %w", err)
	}
	return scanVerbatims(rows)
}
