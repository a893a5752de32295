// Package app bootstraps the runtime shared by the reviewpulse binaries:
// logging, tracing, the warehouse store, migrations and module wiring
package app

import (
	"context"
	"errors"

	"reviewpulse/internal/adapters/model/anthropic"
	"reviewpulse/internal/adapters/source/trustpilot"
	"reviewpulse/internal/modkit"
	"reviewpulse/internal/modkit/module"
	"reviewpulse/internal/platform/config"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/platform/store"
	"reviewpulse/internal/platform/tracing"
	"reviewpulse/migrations"

	analysismod "reviewpulse/internal/services/analysis/module"
	classifydom "reviewpulse/internal/services/classify/domain"
	classifymod "reviewpulse/internal/services/classify/module"
	ingestdom "reviewpulse/internal/services/ingest/domain"
	ingestmod "reviewpulse/internal/services/ingest/module"
	pipelinedom "reviewpulse/internal/services/pipeline/domain"
	pipelinemod "reviewpulse/internal/services/pipeline/module"
	topicsmod "reviewpulse/internal/services/topics/module"
)

// Runtime is an opened process environment
type Runtime struct {
	Cfg   config.Conf
	Log   *logger.Logger
	Store *store.Store
	Deps  modkit.Deps

	stopTracing tracing.Shutdown
}

// Open initializes logging and tracing, opens the store and applies migrations
// unless CORE_MIGRATE=false. role names the binary, e.g. "api" or "classify"
func Open(ctx context.Context, role string) (*Runtime, error) {
	root := config.New()
	service := "reviewpulse-" + role

	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = service
	}
	logger.Init(lo)
	l := logger.Get()

	stop, err := tracing.Init(ctx, tracing.ConfigFromEnv(root, service))
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, store.ConfigFromEnv(root, role, root.MayString("CORE_RUN_TAG", "")), store.WithLogger(*l))
	if err != nil {
		_ = stop(ctx)
		return nil, err
	}
	if root.Prefix("CORE_").MayBool("MIGRATE", true) {
		if err := migrations.Apply(ctx, st); err != nil {
			_ = st.Close(ctx)
			_ = stop(ctx)
			return nil, err
		}
	}

	return &Runtime{
		Cfg:         root,
		Log:         l,
		Store:       st,
		Deps:        modkit.FromStore(*l, root, st),
		stopTracing: stop,
	}, nil
}

// Close releases the store and flushes spans
func (r *Runtime) Close(ctx context.Context) error {
	return errors.Join(r.Store.Close(ctx), r.stopTracing(ctx))
}

// ModelMode says how Wire treats the model adapter
type ModelMode int

const (
	// ModelOff skips classification entirely
	ModelOff ModelMode = iota
	// ModelOptional leaves classification unwired when the credential is missing
	ModelOptional
	// ModelRequired fails wiring when the credential is missing or malformed
	ModelRequired
)

// WireOptions selects what Wire builds
type WireOptions struct {
	Model ModelMode

	// Source overrides the scraper as the pipeline and ingest source
	Source ingestdom.Source

	// Messager swaps the SDK transport of the model adapter, used by tests
	Messager anthropic.Messager
}

// Modules are the wired runners, registered by name in the module registry
type Modules struct {
	Ingest   ingestdom.RunnerPort
	Source   ingestdom.Source
	Classify classifydom.RunnerPort // nil when the model is off or unconfigured
	Pipeline pipelinedom.RunnerPort
}

// Wire builds ingest, topics, analysis, classify and pipeline over deps
func Wire(deps modkit.Deps, opt WireOptions) (Modules, error) {
	log := logger.Named("app")

	in := ingestmod.New(deps)
	module.Register(in.Name(), in.Ports())
	out := Modules{
		Ingest: module.MustPortsOf[ingestmod.Ports](in).Runner,
		Source: opt.Source,
	}
	if out.Source == nil {
		out.Source = trustpilot.New(trustpilot.ConfigFromEnv(deps.Cfg))
	}

	if opt.Model != ModelOff {
		var mopts []anthropic.Option
		if opt.Messager != nil {
			mopts = append(mopts, anthropic.WithMessager(opt.Messager))
		}
		model, err := anthropic.New(anthropic.ConfigFromEnv(deps.Cfg), mopts...)
		switch {
		case err != nil && opt.Model == ModelRequired:
			return Modules{}, perr.Wrap(err, perr.CodeOf(err), "model adapter")
		case err != nil:
			log.Warn().Err(err).Msg("classification disabled: model adapter unavailable")
		default:
			tm := topicsmod.New(deps)
			am := analysismod.New(deps)
			cm := classifymod.New(deps, classifymod.Options{}, modkit.WithPorts(classifydom.Ports{
				Reviews: out.Ingest,
				Topics:  module.MustPortsOf[topicsmod.Ports](tm).Reader,
				Writer:  module.MustPortsOf[analysismod.Ports](am).Writer,
				Model:   model,
			}))
			for _, m := range []modkit.Module{tm, am, cm} {
				module.Register(m.Name(), m.Ports())
			}
			out.Classify = cm.Runner()
		}
	}

	pl := pipelinemod.New(deps, modkit.WithPorts(pipelinedom.Ports{
		Source:   out.Source,
		Ingest:   out.Ingest,
		Classify: out.Classify,
	}))
	module.Register(pl.Name(), pl.Ports())
	out.Pipeline = pl.Runner()
	return out, nil
}
