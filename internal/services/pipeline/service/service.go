// Package service chains scrape, clean, merge, dedup and classify for one date
package service

import (
	"context"
	"time"

	"reviewpulse/internal/core/clean"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/platform/tracing"
	"reviewpulse/internal/services/pipeline/domain"

	"go.opentelemetry.io/otel/attribute"
)

// Config toggles the optional steps
type Config struct {
	SkipDedup    bool
	SkipClassify bool
}

// Service implements domain.RunnerPort
type Service struct {
	Ports domain.Ports
	Cfg   Config
	now   func() time.Time
}

// New constructs the pipeline; a missing source or ingest port panics
func New(ports domain.Ports, cfg Config) *Service {
	if ports.Source == nil || ports.Ingest == nil {
		panic("pipeline service: Ports missing Source or Ingest")
	}
	return &Service{Ports: ports, Cfg: cfg, now: time.Now}
}

// Run executes every step in order and stops at the first hard error.
// The partial summary is returned alongside the error
func (s *Service) Run(ctx context.Context, date time.Time) (sum domain.Summary, err error) {
	start := s.now()
	sum.Date = ptime.Day(date)
	ctx, span := tracing.Start(ctx, "pipeline.run", attribute.String("run_date", ptime.FormatDay(sum.Date)))
	defer func() {
		sum.Duration = s.now().Sub(start)
		tracing.End(span, err)
	}()
	log := logger.C(ctx)

	raw, err := s.Ports.Source.Fetch(ctx)
	if err != nil {
		return sum, perr.Wrap(err, perr.CodeOf(err), "pipeline: fetch reviews")
	}
	sum.Fetched = len(raw)

	batch, stats := clean.Batch(raw)
	sum.Clean = stats
	log.Info().Int("fetched", stats.Before).Int("kept", stats.After).Int("blank", stats.Blank).
		Int("duplicates", stats.Duplicates).Msg("pipeline: batch cleaned")

	if sum.Merge, err = s.Ports.Ingest.StageAndMerge(ctx, batch); err != nil {
		return sum, err
	}

	if !s.Cfg.SkipDedup {
		dd, err := s.Ports.Ingest.Deduplicate(ctx)
		if err != nil {
			return sum, err
		}
		sum.Dedup = &dd
	}

	if !s.Cfg.SkipClassify && s.Ports.Classify != nil {
		// an aborted classify run still reports how far it got
		cs, err := s.Ports.Classify.Run(ctx, sum.Date)
		sum.Classify = &cs
		if err != nil {
			return sum, err
		}
	}

	log.Info().Int64("inserted", sum.Merge.Inserted).Msg("pipeline: run complete")
	return sum, nil
}
