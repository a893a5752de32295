// Package domain defines the end to end pipeline types and ports
package domain

import (
	"context"
	"time"

	"reviewpulse/internal/core/clean"
	classifydom "reviewpulse/internal/services/classify/domain"
	ingestdom "reviewpulse/internal/services/ingest/domain"
)

// Summary reports every step of one pipeline run; skipped steps stay nil
type Summary struct {
	Date     time.Time               `json:"date"`
	Fetched  int                     `json:"fetched"`
	Clean    clean.Stats             `json:"clean"`
	Merge    ingestdom.MergeResult   `json:"merge"`
	Dedup    *ingestdom.DedupResult  `json:"dedup,omitempty"`
	Classify *classifydom.RunSummary `json:"classify,omitempty"`
	Duration time.Duration           `json:"duration_ns"`
}

// RunnerPort is the external port for a pipeline run
type RunnerPort interface {
	Run(ctx context.Context, date time.Time) (Summary, error)
}

// Ports are dependencies injected into the pipeline module
type Ports struct {
	Source   ingestdom.Source       // required
	Ingest   ingestdom.RunnerPort   // required
	Classify classifydom.RunnerPort // nil skips classification
}
