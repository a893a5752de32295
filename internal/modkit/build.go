package modkit

import (
	"net/http"

	"reviewpulse/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount registers b's endpoints on r under its prefix and middlewares
func (b Built) Mount(r httpkit.Router) {
	if b.Prefix == "" {
		if len(b.Mw) == 0 {
			b.Register(b.Subrouter(r))
			return
		}
		r.Group(func(g httpkit.Router) {
			g.Use(b.Mw...)
			b.Register(b.Subrouter(g))
		})
		return
	}
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		b.Register(b.Subrouter(sub))
	})
}
