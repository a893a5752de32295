// Package domain defines the topic analysis write ports
package domain

import (
	"context"

	"reviewpulse/internal/core/sentiment"
)

// Sink names where records are written
type Sink string

const (
	// SinkWarehouse writes to the warehouse topic_analysis table
	SinkWarehouse Sink = "warehouse"
	// SinkClickHouse writes to the ClickHouse topic_analysis table
	SinkClickHouse Sink = "clickhouse"
	// SinkBoth writes to the warehouse first, then ClickHouse
	SinkBoth Sink = "both"
)

// WriterPort appends analysis records for one review
type WriterPort interface {
	Insert(ctx context.Context, records []sentiment.Record) (int64, error)
}

// StorageRepo is the per dialect warehouse statement set
type StorageRepo interface {
	InsertRecords(ctx context.Context, records []sentiment.Record) (int64, error)
}
