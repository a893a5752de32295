// Package service writes topic analysis records to the configured sinks
package service

import (
	"context"

	"reviewpulse/internal/core/sentiment"
	"reviewpulse/internal/modkit/repokit"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/tracing"
	"reviewpulse/internal/services/analysis/domain"

	"go.opentelemetry.io/otel/attribute"
)

// Service implements domain.WriterPort
// DB with Binder is the warehouse sink, CH the analytics sink; either may be nil but not both
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	CH     domain.StorageRepo
}

// New constructs the writer
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], ch domain.StorageRepo) *Service {
	if (db == nil || binder == nil) && ch == nil {
		panic("analysis service: no sink configured")
	}
	return &Service{DB: db, Binder: binder, CH: ch}
}

// Insert appends the records of one review. The warehouse write is one transaction;
// the analytics copy follows it and is only attempted when the warehouse accepted the rows
func (s *Service) Insert(ctx context.Context, recs []sentiment.Record) (n int64, err error) {
	if len(recs) == 0 {
		return 0, nil
	}
	ctx, span := tracing.Start(ctx, "analysis.insert", attribute.Int("records", len(recs)))
	defer func() { tracing.End(span, err) }()

	if s.DB != nil && s.Binder != nil {
		err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
			var e error
			n, e = s.Binder.Bind(q).InsertRecords(ctx, recs)
			return e
		})
		if err != nil {
			return 0, perr.FromPostgres(err, "insert topic analysis")
		}
	}
	if s.CH != nil {
		m, e := s.CH.InsertRecords(ctx, recs)
		if e != nil {
			return n, perr.Wrap(e, perr.ErrorCodeDB, "insert topic analysis into clickhouse")
		}
		if s.DB == nil {
			n = m
		}
	}
	return n, nil
}
