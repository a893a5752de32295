package domain

import (
	"context"
	"time"

	analysisdom "reviewpulse/internal/services/analysis/domain"
	topicsdom "reviewpulse/internal/services/topics/domain"
)

// RunnerPort is the external port for a classification run
type RunnerPort interface {
	Run(ctx context.Context, date time.Time) (RunSummary, error)
}

// Model completes a prompt with free text
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReviewReader returns the verbatims scraped on a date in storage order
type ReviewReader interface {
	Verbatims(ctx context.Context, date time.Time) ([]Verbatim, error)
}

// Ports are dependencies injected into the classify module
type Ports struct {
	Reviews ReviewReader           // required
	Topics  topicsdom.ReaderPort   // required
	Writer  analysisdom.WriterPort // required
	Model   Model                  // required
}
