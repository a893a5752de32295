package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"reviewpulse/internal/adapters/source/csvbatch"
	"reviewpulse/internal/app"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	ingestdom "reviewpulse/internal/services/ingest/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("reviewpulse-pipeline", flag.ContinueOnError)
	var (
		fDate = fs.String("date", "", "scrape day YYYY-MM-DD to classify, defaults to today UTC")
		fCSV  = fs.String("csv", "", "read reviews from this CSV batch instead of scraping")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rt, err := app.Open(ctx, "pipeline")
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

	day := rt.Deps.Today()
	if *fDate != "" {
		if day, err = ptime.ParseDay(*fDate); err != nil {
			l.Error().Err(err).Str("date", *fDate).Msg("bad -date")
			return 2
		}
	}

	var src ingestdom.Source
	if *fCSV != "" {
		src = csvbatch.File{Path: *fCSV}
	}
	// CORE_PIPELINE_SKIP_CLASSIFY=true runs without a model credential
	mode := app.ModelRequired
	if rt.Cfg.Prefix("CORE_PIPELINE_").MayBool("SKIP_CLASSIFY", false) {
		mode = app.ModelOff
	}
	mods, err := app.Wire(rt.Deps, app.WireOptions{Model: mode, Source: src})
	if err != nil {
		l.Error().Err(err).Msg("wiring failed")
		return 1
	}

	sum, err := mods.Pipeline.Run(ctx, day)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sum)
	if err != nil {
		l.Error().Err(err).Msg("pipeline failed")
		return 1
	}
	return 0
}
