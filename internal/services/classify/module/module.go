// Package module provides the classify module implementation
package module

import (
	"reviewpulse/internal/core/themes"
	"reviewpulse/internal/modkit"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/services/classify/domain"
	"reviewpulse/internal/services/classify/service"
)

// Ports exposed by the classify module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// named is satisfied by model adapters that report their model id
type named interface{ Model() string }

// New constructs the classify module. Ports come from the ingest, topics and analysis
// modules plus a model adapter; wiring mistakes and an unreadable theme catalog panic
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("classify"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("classify module: expected WithPorts(classify/domain.Ports)")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.ThemesPath != "" {
		cfg.ThemesPath = overrides.ThemesPath
	}
	if overrides.Retry.MaxAttempts != 0 {
		cfg.Retry = overrides.Retry
	}

	cat, err := themes.Load(cfg.ThemesPath)
	if err != nil {
		panic(err)
	}

	var modelName string
	if n, ok := ports.Model.(named); ok {
		modelName = n.Model()
	}

	runner := service.New(ports, cat, service.Config{ModelName: modelName, Retry: cfg.Retry})
	return &Module{deps: deps, ports: Ports{Runner: runner}}
}

// Name returns the module name
func (m *Module) Name() string { return "classify" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner returns the typed runner port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes is a no-op; runs are triggered through the api module
func (m *Module) MountRoutes(phttp.Router) {}
