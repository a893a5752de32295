// Package module provides the ingest module implementation
package module

import (
	"fmt"

	"reviewpulse/internal/modkit"
	"reviewpulse/internal/modkit/repokit"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/services/ingest/domain"
	"reviewpulse/internal/services/ingest/repo"
	"reviewpulse/internal/services/ingest/service"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the ingest module over the configured warehouse.
// It panics when no warehouse is configured, like every other wiring error
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder, err := repo.Dialects().Pick(deps.Dialect)
	if err != nil {
		panic(fmt.Sprintf("ingest: %v", err))
	}

	db := deps.WH
	if deps.Dialect == store.DialectPostgres && opts.StatementTimeout > 0 {
		db = repokit.WithBeginHooks(db, repokit.StatementTimeout(opts.StatementTimeout))
	}

	svc := service.New(db, binder, service.Config{DeleteChunk: opts.DeleteChunk})

	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner returns the typed runner port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes is a no-op; runs are triggered through the api module
func (m *Module) MountRoutes(phttp.Router) {}
