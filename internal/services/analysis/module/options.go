package module

import (
	"strings"

	"reviewpulse/internal/platform/config"
	"reviewpulse/internal/services/analysis/domain"
)

// Options holds configuration for the analysis writer
type Options struct {
	Sink domain.Sink
}

// FromConfig reads CORE_ANALYSIS_SINK, one of warehouse, clickhouse or both
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_ANALYSIS_")
	s := c.MayEnum("SINK", string(domain.SinkWarehouse),
		string(domain.SinkWarehouse), string(domain.SinkClickHouse), string(domain.SinkBoth))
	return Options{Sink: domain.Sink(strings.ToLower(s))}
}
