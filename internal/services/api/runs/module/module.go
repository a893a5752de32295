// Package module wires the run triggers under /v1/runs
package module

import (
	"reviewpulse/internal/modkit"
	"reviewpulse/internal/modkit/httpkit"
	str "reviewpulse/internal/platform/strings"
	runshttp "reviewpulse/internal/services/api/runs/http"
)

// Ports are the runners this module triggers, see runshttp.Deps
type Ports = runshttp.Deps

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	ports Ports
}

// New constructs the runs module from WithPorts(module.Ports)
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("runs"),
		modkit.WithPrefix("/runs"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok {
		panic("runs module: expected WithPorts(runs/module.Ports)")
	}
	if ports.Today == nil {
		ports.Today = deps.Today
	}
	b.Prefix = str.MustPrefix(b.Prefix)
	b.Register = func(r httpkit.Router) { runshttp.Register(r, ports) }
	return &Module{built: b, ports: ports}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
