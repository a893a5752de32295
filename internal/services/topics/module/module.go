// Package module provides the topics module implementation
package module

import (
	"fmt"

	"reviewpulse/internal/modkit"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/services/topics/domain"
	"reviewpulse/internal/services/topics/repo"
	"reviewpulse/internal/services/topics/service"
)

// Ports defines the topics module ports
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements the topics module
type Module struct {
	ports Ports
}

// New constructs the topics module over the configured warehouse
func New(deps modkit.Deps) *Module {
	binder, err := repo.Dialects().Pick(deps.Dialect)
	if err != nil {
		panic(fmt.Sprintf("topics: %v", err))
	}
	return &Module{ports: Ports{Reader: service.New(deps.WH, binder)}}
}

// Name returns the module name
func (m *Module) Name() string { return "topics" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Reader returns the typed reader port
func (m *Module) Reader() domain.ReaderPort { return m.ports.Reader }

// MountRoutes is a no-op
func (m *Module) MountRoutes(phttp.Router) {}
