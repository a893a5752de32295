// Package domain holds the types and ports of review ingestion
package domain

import (
	"context"

	"reviewpulse/internal/core/review"
)

// Review re-exports the shared review record
type Review = review.Review

// Source yields one batch of reviews per call
type Source interface {
	Fetch(ctx context.Context) ([]Review, error)
}

// MergeResult reports one staging plus merge pass
type MergeResult struct {
	Staged   int64 `json:"staged"`
	Inserted int64 `json:"inserted"`
}

// Skipped is the number of staged rows already present or repeated within the batch
func (m MergeResult) Skipped() int64 { return m.Staged - m.Inserted }

// DedupResult reports one reconciliation sweep
type DedupResult struct {
	Duplicates int64 `json:"duplicates"`
	Deleted    int64 `json:"deleted"`
	Chunks     int   `json:"chunks"`
}

// Verbatim is the review text handed to classification
type Verbatim struct {
	ReviewID string `json:"review_id"`
	Content  string `json:"content"`
}
