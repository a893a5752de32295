package module

import (
	"time"

	"reviewpulse/internal/platform/config"
	"reviewpulse/internal/services/ingest/service"
)

// Options holds configuration options for ingestion
type Options struct {
	DeleteChunk      int
	StatementTimeout time.Duration
}

// FromConfig reads the ingest options from config with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_INGEST_")
	return Options{
		DeleteChunk:      c.MayPositiveInt("DELETE_CHUNK", service.DefaultDeleteChunk),
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", 0),
	}
}
