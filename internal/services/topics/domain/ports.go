// Package domain defines the topic lookup types and ports
package domain

import (
	"context"

	"reviewpulse/internal/core/sentiment"
)

// Topic is one row of the topics table
type Topic struct {
	ID    string
	Label string
}

// ReaderPort hands the classifier its label to id mapping
type ReaderPort interface {
	Labels(ctx context.Context) (sentiment.TopicLabels, error)
}

// StorageRepo reads topics from the warehouse
type StorageRepo interface {
	List(ctx context.Context) ([]Topic, error)
}
