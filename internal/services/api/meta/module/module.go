// Package module wires the meta endpoints at the API root
package module

import (
	"time"

	modkit "reviewpulse/internal/modkit"
	"reviewpulse/internal/modkit/httpkit"
	str "reviewpulse/internal/platform/strings"

	metahttp "reviewpulse/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	name      string
	service   string
	register  func(httpkit.Router)
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		service:   str.MustString(service, "meta service name"),
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		d := metahttp.Deps{ServiceName: m.service, StartedAt: m.startedAt}
		if deps.WH != nil {
			d.Warehouse = deps.WH
		}
		if deps.CH != nil {
			d.Analytics = deps.CH
		}
		metahttp.Register(r, d)
		external(r)
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(g httpkit.Router) { m.register(g) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
