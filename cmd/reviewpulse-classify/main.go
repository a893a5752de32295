package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"reviewpulse/internal/app"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/services/classify/report"
	"reviewpulse/internal/services/classify/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("reviewpulse-classify", flag.ContinueOnError)
	var (
		fDate   = fs.String("date", "", "scrape day YYYY-MM-DD, defaults to today UTC")
		fReport = fs.String("report", "", "write the run report here, .html renders HTML, anything else markdown")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rt, err := app.Open(ctx, "classify")
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

	mods, err := app.Wire(rt.Deps, app.WireOptions{Model: app.ModelRequired})
	if err != nil {
		l.Error().Err(err).Msg("wiring failed")
		return 1
	}

	sum, err := mods.Classify.Run(ctx, day)
	if err != nil {
		l.Error().Err(err).Str("date", ptime.FormatDay(day)).Msg("classification failed")
		return 1
	}
	fmt.Fprintln(stdout, service.String(sum))

	if *fReport != "" {
		doc := report.Markdown(sum)
		if strings.HasSuffix(strings.ToLower(*fReport), ".html") {
			if doc, err = report.HTML(sum); err != nil {
				l.Error().Err(err).Msg("render report")
				return 1
			}
		}
		if err := os.WriteFile(*fReport, []byte(doc), 0o644); err != nil {
			l.Error().Err(err).Msg("write report")
			return 1
		}
	}
	return 0
}
