package domain

import (
	"context"
	"time"
)

// RunnerPort is what other modules and binaries call
type RunnerPort interface {
	// StageAndMerge overwrites the staging table with batch and inserts unseen reviews
	StageAndMerge(ctx context.Context, batch []Review) (MergeResult, error)

	// Deduplicate removes all but the earliest row of each natural key
	Deduplicate(ctx context.Context) (DedupResult, error)

	// Verbatims lists non empty review texts scraped on date, in storage order
	Verbatims(ctx context.Context, date time.Time) ([]Verbatim, error)
}

// StorageRepo is the per dialect statement set
type StorageRepo interface {
	// TruncateStaging empties review_staging
	TruncateStaging(ctx context.Context) error

	// LoadStaging appends rows to review_staging in order
	LoadStaging(ctx context.Context, rows []Review) (int64, error)

	// MergeStaging inserts the first staged row of every natural key absent from reviews
	MergeStaging(ctx context.Context) (int64, error)

	// DuplicateRowIDs lists the row ids ranked after the first of their natural key
	DuplicateRowIDs(ctx context.Context) ([]int64, error)

	// DeleteRows deletes reviews by row id
	DeleteRows(ctx context.Context, rowIDs []int64) (int64, error)

	// Verbatims reads the classification input for one scrape day
	Verbatims(ctx context.Context, day time.Time) ([]Verbatim, error)
}
