// Package service builds the topic label mapping consumed by classification runs
package service

import (
	"context"

	"reviewpulse/internal/core/sentiment"
	"reviewpulse/internal/modkit/repokit"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/services/topics/domain"
)

// Service implements domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
}

// New constructs the topic reader
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo]) *Service {
	if db == nil || binder == nil {
		panic("topics service: nil warehouse or binder")
	}
	return &Service{DB: db, Binder: binder}
}

// Labels loads every topic and keys it by its exact label
func (s *Service) Labels(ctx context.Context) (sentiment.TopicLabels, error) {
	topics, err := s.Binder.Bind(s.DB).List(ctx)
	if err != nil {
		return nil, perr.FromPostgres(err, "load topics")
	}
	out := make(sentiment.TopicLabels, len(topics))
	for _, t := range topics {
		out[t.Label] = t.ID
	}
	if len(out) == 0 {
		logger.C(ctx).Warn().Msg("topics: table is empty, every theme will be unknown")
	}
	return out, nil
}
