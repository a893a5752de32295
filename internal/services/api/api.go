// Package api provides the HTTP trigger API
package api

import (
	"reviewpulse/internal/modkit"
	"reviewpulse/internal/modkit/httpkit"
	"reviewpulse/internal/modkit/module"
	phttp "reviewpulse/internal/platform/net/http"

	metamod "reviewpulse/internal/services/api/meta/module"
	runsmod "reviewpulse/internal/services/api/runs/module"
)

// Options are the API options
type Options struct {
	Deps    modkit.Deps
	Runs    runsmod.Ports
	Service string
}

// Mount mounts meta at the root and the run triggers under /v1 behind the bearer port
func Mount(r phttp.Router, opt Options) {
	if opt.Service == "" {
		opt.Service = "reviewpulse-api"
	}
	meta := metamod.New(opt.Deps, opt.Service)
	runs := runsmod.New(opt.Deps, modkit.WithPorts(opt.Runs))

	r.Group(func(root httpkit.Router) {
		root.Use(httpkit.CommonStack(opt.Deps.Cfg)...)
		meta.MountRoutes(root)

		httpkit.MountVersion(root, "v1", nil, func(v1 httpkit.Router) {
			httpkit.Protected(v1, httpkit.TokensFromConfig(opt.Deps.Cfg), func(pr httpkit.Router) {
				runs.MountRoutes(pr)
			})
		})
	})

	for _, m := range []modkit.Module{meta, runs} {
		module.Register(m.Name(), m.Ports())
	}
}
