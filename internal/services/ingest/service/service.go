// Package service implements review staging, merge, reconciliation and the verbatim read
package service

import (
	"context"
	"time"

	"reviewpulse/internal/modkit/repokit"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/platform/tracing"
	"reviewpulse/internal/services/ingest/domain"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultDeleteChunk bounds the id list of one delete statement
const DefaultDeleteChunk = 1000

// Config holds ingestion tuning
type Config struct {
	// DeleteChunk is the number of row ids per delete statement; <=0 -> DefaultDeleteChunk
	DeleteChunk int
}

// Service implements domain.RunnerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config
}

// New constructs the ingestion service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if cfg.DeleteChunk <= 0 {
		cfg.DeleteChunk = DefaultDeleteChunk
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg}
}

// StageAndMerge overwrites staging with batch then inserts every unseen natural key.
// Staging and merge are separate transactions; a failed merge leaves reviews untouched
func (s *Service) StageAndMerge(ctx context.Context, batch []domain.Review) (res domain.MergeResult, err error) {
	log := logger.C(ctx)
	if len(batch) == 0 {
		log.Info().Msg("ingest: empty batch, nothing to stage")
		return domain.MergeResult{}, nil
	}

	rows, err := prepare(batch)
	if err != nil {
		return domain.MergeResult{}, err
	}

	ctx, span := tracing.Start(ctx, "ingest.stage_and_merge", attribute.Int("batch", len(rows)))
	defer func() {
		span.SetAttributes(attribute.Int64("inserted", res.Inserted))
		tracing.End(span, err)
	}()

	start := time.Now()
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		if err := r.TruncateStaging(ctx); err != nil {
			return err
		}
		n, err := r.LoadStaging(ctx, rows)
		res.Staged = n
		return err
	})
	if err != nil {
		return domain.MergeResult{}, perr.FromPostgres(err, "stage reviews")
	}

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		n, err := s.Binder.Bind(q).MergeStaging(ctx)
		res.Inserted = n
		return err
	})
	if err != nil {
		return domain.MergeResult{Staged: res.Staged}, perr.FromPostgres(err, "merge staged reviews")
	}

	msg := "ingest: merge complete"
	if res.Inserted == 0 {
		msg = "ingest: no new reviews to insert"
	}
	log.Info().
		Int64("staged", res.Staged).
		Int64("inserted", res.Inserted).
		Int64("skipped", res.Skipped()).
		Dur("took", time.Since(start)).
		Msg(msg)
	return res, nil
}

// prepare fills missing ids and rejects rows the store cannot key
func prepare(batch []domain.Review) ([]domain.Review, error) {
	rows := make([]domain.Review, len(batch))
	for i, r := range batch {
		switch {
		case r.Author == "":
			return nil, perr.WithField(perr.InvalidArgf("review %d has no author", i), "author")
		case r.PublicationDate.IsZero():
			return nil, perr.WithField(perr.InvalidArgf("review %d has no publication date", i), "publication_date")
		case r.ScrapeDate.IsZero():
			return nil, perr.WithField(perr.InvalidArgf("review %d has no scrape date", i), "scrape_date")
		case r.Rating < 0 || r.Rating > 5:
			return nil, perr.WithField(perr.InvalidArgf("review %d rating %d is outside 0..5", i, r.Rating), "rating")
		}
		r.PublicationDate = ptime.Day(r.PublicationDate)
		r.ScrapeDate = ptime.Day(r.ScrapeDate)
		rows[i] = r.WithID()
	}
	return rows, nil
}

// Deduplicate deletes every row ranked after the first of its natural key, in one transaction
func (s *Service) Deduplicate(ctx context.Context) (res domain.DedupResult, err error) {
	ctx, span := tracing.Start(ctx, "ingest.deduplicate")
	defer func() {
		span.SetAttributes(attribute.Int64("deleted", res.Deleted))
		tracing.End(span, err)
	}()

	log := logger.C(ctx)
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		ids, err := r.DuplicateRowIDs(ctx)
		if err != nil {
			return err
		}
		res.Duplicates = int64(len(ids))
		if len(ids) == 0 {
			return nil
		}
		for start := 0; start < len(ids); start += s.Cfg.DeleteChunk {
			end := min(start+s.Cfg.DeleteChunk, len(ids))
			n, err := r.DeleteRows(ctx, ids[start:end])
			if err != nil {
				return err
			}
			res.Deleted += n
			res.Chunks++
		}
		return nil
	})
	if err != nil {
		return domain.DedupResult{}, perr.FromPostgres(err, "deduplicate reviews")
	}

	if res.Duplicates == 0 {
		log.Info().Msg("ingest: no duplicates found")
		return res, nil
	}
	log.Info().
		Int64("duplicates", res.Duplicates).
		Int64("deleted", res.Deleted).
		Int("chunks", res.Chunks).
		Msg("ingest: duplicates removed")
	return res, nil
}

// Verbatims reads the classification input for date
func (s *Service) Verbatims(ctx context.Context, date time.Time) ([]domain.Verbatim, error) {
	out, err := s.Binder.Bind(s.DB).Verbatims(ctx, ptime.Day(date))
	if err != nil {
		return nil, perr.FromPostgres(err, "read verbatims")
	}
	return out, nil
}
