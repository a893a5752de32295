package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"reviewpulse/internal/adapters/source/csvbatch"
	"reviewpulse/internal/app"
	"reviewpulse/internal/core/clean"
	"reviewpulse/internal/platform/logger"
	ingestdom "reviewpulse/internal/services/ingest/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run returns the process exit code so deferred cleanup always happens
func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("reviewpulse-ingest", flag.ContinueOnError)
	var (
		fCSV    = fs.String("csv", "", "ingest this CSV batch instead of scraping")
		fDedup  = fs.Bool("dedup", false, "run deduplication after the merge")
		fExport = fs.String("export", "", "also write the cleaned batch to this CSV path")
		fDry    = fs.Bool("dry-run", false, "fetch and clean only, do not touch the warehouse")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rt, err := app.Open(ctx, "ingest")
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

	var src ingestdom.Source
	if *fCSV != "" {
		src = csvbatch.File{Path: *fCSV}
	}
	mods, err := app.Wire(rt.Deps, app.WireOptions{Model: app.ModelOff, Source: src})
	if err != nil {
		l.Error().Err(err).Msg("wiring failed")
		return 1
	}

	raw, err := mods.Source.Fetch(ctx)
	if err != nil {
		l.Error().Err(err).Msg("fetch failed")
		return 1
	}
	batch, stats := clean.Batch(raw)
	l.Info().Int("fetched", len(raw)).Int("kept", stats.After).Int("blank", stats.Blank).
		Int("duplicates", stats.Duplicates).Msg("batch cleaned")

	if *fExport != "" {
		if err := csvbatch.WriteFile(*fExport, batch); err != nil {
			l.Error().Err(err).Msg("export failed")
			return 1
		}
	}
	if *fDry {
		return 0
	}

	res, err := mods.Ingest.StageAndMerge(ctx, batch)
	if err != nil {
		l.Error().Err(err).Msg("stage and merge failed")
		return 1
	}
	fmt.Fprintf(stdout, "staged=%d inserted=%d\n", res.Staged, res.Inserted)

	if *fDedup {
		dd, err := mods.Ingest.Deduplicate(ctx)
		if err != nil {
			l.Error().Err(err).Msg("deduplicate failed")
			return 1
		}
		fmt.Fprintf(stdout, "duplicates=%d deleted=%d\n", dd.Duplicates, dd.Deleted)
	}
	return 0
}
