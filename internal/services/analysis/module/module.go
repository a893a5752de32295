// Package module provides the analysis module implementation
package module

import (
	"fmt"

	"reviewpulse/internal/modkit"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/services/analysis/domain"
	"reviewpulse/internal/services/analysis/repo"
	"reviewpulse/internal/services/analysis/service"
)

// Ports defines the analysis module ports
type Ports struct {
	Writer domain.WriterPort
}

// Module implements the analysis module
type Module struct {
	opts  Options
	ports Ports
}

// New constructs the analysis module for the configured sink.
// A sink whose backend is missing from deps is a wiring error and panics
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	var svc *service.Service
	switch opts.Sink {
	case domain.SinkClickHouse:
		if deps.CH == nil {
			panic("analysis: clickhouse sink selected but SERVICE_CLICKHOUSE is not configured")
		}
		svc = service.New(nil, nil, repo.CH{Client: deps.CH})
	default:
		binder, err := repo.Dialects().Pick(deps.Dialect)
		if err != nil {
			panic(fmt.Sprintf("analysis: %v", err))
		}
		var ch domain.StorageRepo
		if opts.Sink == domain.SinkBoth {
			if deps.CH == nil {
				panic("analysis: both sinks selected but SERVICE_CLICKHOUSE is not configured")
			}
			ch = repo.CH{Client: deps.CH}
		}
		svc = service.New(deps.WH, binder, ch)
	}

	return &Module{opts: opts, ports: Ports{Writer: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "analysis" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Writer returns the typed writer port
func (m *Module) Writer() domain.WriterPort { return m.ports.Writer }

// Sink reports the configured sink
func (m *Module) Sink() domain.Sink { return m.opts.Sink }

// MountRoutes is a no-op
func (m *Module) MountRoutes(phttp.Router) {}
