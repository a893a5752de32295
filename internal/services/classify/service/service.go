// Package service runs the per date verbatim classification loop
package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"reviewpulse/internal/core/sentiment"
	"reviewpulse/internal/core/themes"
	"reviewpulse/internal/core/themescore"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	"reviewpulse/internal/platform/retry"
	ptime "reviewpulse/internal/platform/time"
	"reviewpulse/internal/platform/tracing"
	analysisdom "reviewpulse/internal/services/analysis/domain"
	"reviewpulse/internal/services/classify/domain"
	topicsdom "reviewpulse/internal/services/topics/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Config for the classify service
type Config struct {
	// ModelName is reported on the summary only
	ModelName string
	// Retry wraps every model call; the zero value is a single attempt
	Retry retry.Policy
}

// Service implements domain.RunnerPort
type Service struct {
	Reviews domain.ReviewReader
	Topics  topicsdom.ReaderPort
	Writer  analysisdom.WriterPort
	Model   domain.Model
	Catalog *themes.Catalog
	Cfg     Config

	known   themescore.Labels
	now     func() time.Time
	newID   func() string
	scoring []sentiment.Option
}

// Option tunes the service for tests
type Option func(*Service)

// WithClock fixes the run clock and record timestamps
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		s.now = fn
		s.scoring = append(s.scoring, sentiment.WithClock(fn))
	}
}

// WithIDs replaces the run and record id generator
func WithIDs(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
		s.scoring = append(s.scoring, sentiment.WithIDs(fn))
	}
}

// New constructs a classify service; missing ports are wiring errors and panic
func New(ports domain.Ports, cat *themes.Catalog, cfg Config, opts ...Option) *Service {
	if ports.Reviews == nil || ports.Topics == nil || ports.Writer == nil || ports.Model == nil {
		panic("classify service: Ports missing Reviews, Topics, Writer or Model")
	}
	if cat == nil {
		panic("classify service: nil theme catalog")
	}
	s := &Service{
		Reviews: ports.Reviews,
		Topics:  ports.Topics,
		Writer:  ports.Writer,
		Model:   ports.Model,
		Catalog: cat,
		Cfg:     cfg,
		known:   themescore.NewLabels(cat.Labels()...),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run classifies every verbatim scraped on date. Per review failures are logged and
// counted; only a failed read, a failed topic load, a rejected credential or ctx
// cancellation end the run with an error
func (s *Service) Run(ctx context.Context, date time.Time) (sum domain.RunSummary, err error) {
	start := s.now()
	day := ptime.Day(date)
	sum = domain.RunSummary{RunID: s.newID(), Date: day, Model: s.Cfg.ModelName}

	ctx = logger.WithRun(ctx, sum.RunID, ptime.FormatDay(day))
	ctx, span := tracing.Start(ctx, "classify.run", attribute.String("run_date", ptime.FormatDay(day)))
	defer func() {
		sum.Duration = s.now().Sub(start)
		tracing.End(span, err)
	}()
	log := logger.C(ctx)

	verbatims, err := s.Reviews.Verbatims(ctx, day)
	if err != nil {
		return sum, perr.Wrap(err, perr.CodeOf(err), "classify: read verbatims")
	}
	sum.Fetched = len(verbatims)
	if len(verbatims) == 0 {
		log.Info().Msg("classify: no verbatims for date")
		sum.Status = domain.StatusCompleted
		return sum, nil
	}

	labels, err := s.Topics.Labels(ctx)
	if err != nil {
		return sum, perr.Wrap(err, perr.CodeOf(err), "classify: load topics")
	}
	s.warnUnmapped(ctx, labels)

	unknown := newOrderedSet()
	for _, v := range verbatims {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("done", sum.Classified+sum.Failed+sum.Empty).Msg("classify: run canceled")
			return sum, err
		}

		out := s.one(ctx, v, labels)
		switch {
		case out.err != nil:
			if perr.IsCode(out.err, perr.ErrorCodeUnauthorized) {
				return sum, out.err
			}
			sum.Failed++
			log.Error().Err(out.err).Str("review_id", v.ReviewID).Str("stage", out.stage).Msg("classify: review failed")
		case out.empty:
			sum.Empty++
		default:
			sum.Classified++
		}
		unknown.add(out.unknown...)
		if out.insertErr != nil {
			sum.InsertFailures++
			log.Error().Err(out.insertErr).Str("review_id", v.ReviewID).Msg("classify: insert failed")
		}
		sum.Records += out.inserted
	}

	sum.UnknownThemes = unknown.items
	if len(sum.UnknownThemes) > 0 {
		log.Warn().Strs("themes", sum.UnknownThemes).Msg("classify: themes without a topic mapping")
	}

	sum.Status = domain.StatusCompleted
	log.Info().
		Int("fetched", sum.Fetched).
		Int("classified", sum.Classified).
		Int("failed", sum.Failed).
		Int("empty", sum.Empty).
		Int64("records", sum.Records).
		Int("insert_failures", sum.InsertFailures).
		Msg("classify: run complete")
	return sum, nil
}

type outcome struct {
	stage     string
	err       error
	empty     bool
	unknown   []string
	inserted  int64
	insertErr error
}

// one classifies a single verbatim and never panics
func (s *Service) one(ctx context.Context, v domain.Verbatim, labels sentiment.TopicLabels) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.C(ctx).Error().Str("review_id", v.ReviewID).Bytes("stack", debug.Stack()).Msg("classify: panic recovered")
			out = outcome{stage: "panic", err: perr.PanicErrf("classify review %s: %v", v.ReviewID, r)}
		}
	}()

	prompt := s.Catalog.Prompt(v.Content)
	text, err := retry.Do(ctx, s.Cfg.Retry, "model.complete", func(ctx context.Context) (string, error) {
		return s.Model.Complete(ctx, prompt)
	})
	if err != nil {
		return outcome{stage: "model", err: err}
	}

	res, err := themescore.Validate(text, s.known)
	if err != nil {
		return outcome{stage: "validate", err: err}
	}
	if !res.OK() {
		logger.C(ctx).Info().Str("review_id", v.ReviewID).Str("reason", res.Reason).Msg("classify: no usable theme")
		return outcome{empty: true}
	}

	records, unknown := sentiment.ScoreAndMap(v.ReviewID, res.Scores, labels, s.scoring...)
	out = outcome{unknown: unknown}
	if len(records) == 0 {
		return out
	}
	out.inserted, out.insertErr = s.Writer.Insert(ctx, records)
	return out
}

// warnUnmapped reports catalog themes the topics table cannot resolve
func (s *Service) warnUnmapped(ctx context.Context, labels sentiment.TopicLabels) {
	var missing []string
	for _, l := range s.Catalog.Labels() {
		if _, ok := labels[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		logger.C(ctx).Warn().Strs("themes", missing).Msg("classify: catalog themes missing from topics")
	}
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: map[string]struct{}{}} }

func (o *orderedSet) add(xs ...string) {
	for _, x := range xs {
		if _, ok := o.seen[x]; ok {
			continue
		}
		o.seen[x] = struct{}{}
		o.items = append(o.items, x)
	}
}

// String renders a one line summary for CLIs
func String(sum domain.RunSummary) string {
	return fmt.Sprintf("%s %s: fetched=%d classified=%d empty=%d failed=%d records=%d insert_failures=%d unknown=%d in %s",
		ptime.FormatDay(sum.Date), sum.Status, sum.Fetched, sum.Classified, sum.Empty, sum.Failed,
		sum.Records, sum.InsertFailures, len(sum.UnknownThemes), sum.Duration.Round(time.Millisecond))
}
