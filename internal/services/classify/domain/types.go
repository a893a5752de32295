// Package domain defines the classification run types and ports
package domain

import (
	"time"

	ingestdom "reviewpulse/internal/services/ingest/domain"
)

// StatusCompleted is the only terminal state a returned summary carries
const StatusCompleted = "completed"

// Verbatim is a stored review with content, as read for classification
type Verbatim = ingestdom.Verbatim

// RunSummary describes one classification run over a scrape date
type RunSummary struct {
	RunID  string    `json:"run_id"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
	Model  string    `json:"model,omitempty"`

	// Fetched counts verbatims read for the date
	Fetched int `json:"fetched"`
	// Classified counts reviews whose model answer held at least one valid theme
	Classified int `json:"classified"`
	// Failed counts reviews lost to model, parse or unexpected errors
	Failed int `json:"failed"`
	// Empty counts answers that parsed but held no usable theme
	Empty int `json:"empty"`
	// Records counts rows written to topic_analysis
	Records int64 `json:"records"`
	// InsertFailures counts reviews whose records could not be written
	InsertFailures int `json:"insert_failures"`
	// UnknownThemes lists labels the model returned that no topic maps to, first seen first
	UnknownThemes []string `json:"unknown_themes,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}
