// Package module provides the pipeline module implementation
package module

import (
	"reviewpulse/internal/modkit"
	"reviewpulse/internal/platform/config"
	phttp "reviewpulse/internal/platform/net/http"
	"reviewpulse/internal/services/pipeline/domain"
	"reviewpulse/internal/services/pipeline/service"
)

// Ports exposed by the pipeline module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// Options holds the pipeline step toggles
type Options struct {
	SkipDedup    bool
	SkipClassify bool
}

// FromConfig reads CORE_PIPELINE_SKIP_DEDUP and CORE_PIPELINE_SKIP_CLASSIFY
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_PIPELINE_")
	return Options{
		SkipDedup:    c.MayBool("SKIP_DEDUP", false),
		SkipClassify: c.MayBool("SKIP_CLASSIFY", false),
	}
}

// New constructs the pipeline module from WithPorts(pipeline/domain.Ports)
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("pipeline")}, opts...)...)
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("pipeline module: expected WithPorts(pipeline/domain.Ports)")
	}
	o := FromConfig(deps.Cfg)
	return &Module{ports: Ports{Runner: service.New(ports, service.Config{
		SkipDedup:    o.SkipDedup,
		SkipClassify: o.SkipClassify,
	})}}
}

// Name returns the module name
func (m *Module) Name() string { return "pipeline" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Runner returns the typed runner port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// MountRoutes is a no-op; runs are triggered through the api module
func (m *Module) MountRoutes(phttp.Router) {}
