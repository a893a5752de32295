package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"reviewpulse/internal/app"
	"reviewpulse/internal/platform/logger"
	phttp "reviewpulse/internal/platform/net/http"

	"reviewpulse/internal/services/api"
	runsmod "reviewpulse/internal/services/api/runs/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	rt, err := app.Open(ctx, "api")
	if err != nil {
		logger.Get().Error().Err(err).Msg("startup failed")
		return 1
	}
	l := rt.Log
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close runtime")
		}
	}()

	// the api stays up without a model credential; /v1/runs/classify answers 503
	mods, err := app.Wire(rt.Deps, app.WireOptions{Model: app.ModelOptional})
	if err != nil {
		l.Error().Err(err).Msg("wiring failed")
		return 1
	}

	// http server (reads API_PORT / API_WRITE_TIMEOUT)
	srv := phttp.NewServer(rt.Cfg)
	api.Mount(srv.Router(), api.Options{
		Deps:    rt.Deps,
		Service: "reviewpulse-api",
		Runs: runsmod.Ports{
			Ingest:   mods.Ingest,
			Source:   mods.Source,
			Classify: mods.Classify,
			Pipeline: mods.Pipeline,
		},
	})

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return 1
	}
	return 0
}
