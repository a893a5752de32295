// Package http exposes run triggers for ingestion, dedup, classification and the pipeline
package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"reviewpulse/internal/core/clean"
	"reviewpulse/internal/core/review"
	"reviewpulse/internal/modkit/httpkit"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
	ptime "reviewpulse/internal/platform/time"
	classifydom "reviewpulse/internal/services/classify/domain"
	"reviewpulse/internal/services/classify/report"
	ingestdom "reviewpulse/internal/services/ingest/domain"
	pipelinedom "reviewpulse/internal/services/pipeline/domain"
)

// Deps are the handler dependencies; a nil runner disables its route with 503
type Deps struct {
	Ingest   ingestdom.RunnerPort
	Source   ingestdom.Source
	Classify classifydom.RunnerPort
	Pipeline pipelinedom.RunnerPort
	Today    func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the run routes
func Register(r httpkit.Router, d Deps) {
	if d.Today == nil {
		d.Today = func() time.Time { return ptime.Today(nil) }
	}
	h := &handlers{deps: d}

	httpkit.PostJSON(r, "/classify", h.classify)
	httpkit.PostJSON(r, "/ingest", h.ingest)
	httpkit.PostJSON(r, "/dedup", h.dedup)
	httpkit.PostJSON(r, "/pipeline", h.pipeline)
}

// RunRequest selects the scrape day a run works on, empty means today UTC
type RunRequest struct {
	RunDate string `json:"run_date" validate:"run_date"`
}

// ReviewIn is one review pushed by a caller instead of scraped
type ReviewIn struct {
	ReviewID        string `json:"review_id"`
	Rating          int    `json:"rating" validate:"min=0,max=5"`
	Content         string `json:"content"`
	Author          string `json:"author" validate:"required"`
	PublicationDate string `json:"publication_date" validate:"required,run_date"`
	ScrapeDate      string `json:"scrape_date" validate:"run_date"`
}

// IngestRequest either carries reviews or asks the server to scrape
type IngestRequest struct {
	Reviews []ReviewIn `json:"reviews" validate:"max=5000,dive"`
	Dedup   bool       `json:"dedup"`
}

// IngestResponse reports the cleaned batch and the merge
type IngestResponse struct {
	Fetched int                    `json:"fetched"`
	Clean   clean.Stats            `json:"clean"`
	Merge   ingestdom.MergeResult  `json:"merge"`
	Dedup   *ingestdom.DedupResult `json:"dedup,omitempty"`
}

func (h *handlers) day(s string) (time.Time, error) {
	if s == "" {
		return h.deps.Today(), nil
	}
	d, err := ptime.ParseDay(s)
	if err != nil {
		return time.Time{}, perr.WithField(perr.InvalidArgf("run_date must be YYYY-MM-DD"), "run_date")
	}
	return d, nil
}

func (h *handlers) classify(r *http.Request, in RunRequest) (any, error) {
	if h.deps.Classify == nil {
		return nil, perr.Unavailablef("classification is not configured")
	}
	day, err := h.day(in.RunDate)
	if err != nil {
		return nil, err
	}
	sum, err := h.deps.Classify.Run(r.Context(), day)
	if err != nil {
		return nil, err
	}
	if wantsHTML(r) {
		doc, err := report.HTML(sum)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "render run report")
		}
		return httpkit.HTML([]byte(doc)), nil
	}
	return sum, nil
}

func (h *handlers) ingest(r *http.Request, in IngestRequest) (any, error) {
	if h.deps.Ingest == nil {
		return nil, perr.Unavailablef("ingestion is not configured")
	}
	ctx := r.Context()

	var raw []review.Review
	switch {
	case len(in.Reviews) > 0:
		today := h.deps.Today()
		raw = make([]review.Review, 0, len(in.Reviews))
		for i, rv := range in.Reviews {
			out, err := rv.toReview(today)
			if err != nil {
				return nil, perr.WithField(err, "reviews["+strconv.Itoa(i)+"]")
			}
			raw = append(raw, out)
		}
	case h.deps.Source != nil:
		var err error
		if raw, err = h.deps.Source.Fetch(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, perr.InvalidArgf("no reviews in body and no scraper configured")
	}

	batch, stats := clean.Batch(raw)
	res := IngestResponse{Fetched: len(raw), Clean: stats}

	var err error
	if res.Merge, err = h.deps.Ingest.StageAndMerge(ctx, batch); err != nil {
		return nil, err
	}
	if in.Dedup {
		dd, err := h.deps.Ingest.Deduplicate(ctx)
		if err != nil {
			return nil, err
		}
		res.Dedup = &dd
	}
	logger.C(ctx).Info().Int("fetched", res.Fetched).Int64("inserted", res.Merge.Inserted).Msg("api: ingest run")
	return res, nil
}

func (h *handlers) dedup(r *http.Request, _ struct{}) (any, error) {
	if h.deps.Ingest == nil {
		return nil, perr.Unavailablef("ingestion is not configured")
	}
	return h.deps.Ingest.Deduplicate(r.Context())
}

func (h *handlers) pipeline(r *http.Request, in RunRequest) (any, error) {
	if h.deps.Pipeline == nil {
		return nil, perr.Unavailablef("pipeline is not configured")
	}
	day, err := h.day(in.RunDate)
	if err != nil {
		return nil, err
	}
	return h.deps.Pipeline.Run(r.Context(), day)
}

func (rv ReviewIn) toReview(today time.Time) (review.Review, error) {
	pub, err := ptime.ParseDay(rv.PublicationDate)
	if err != nil {
		return review.Review{}, perr.InvalidArgf("publication_date must be YYYY-MM-DD")
	}
	scrape := today
	if rv.ScrapeDate != "" {
		if scrape, err = ptime.ParseDay(rv.ScrapeDate); err != nil {
			return review.Review{}, perr.InvalidArgf("scrape_date must be YYYY-MM-DD")
		}
	}
	return review.Review{
		ReviewID:        strings.TrimSpace(rv.ReviewID),
		Rating:          rv.Rating,
		Content:         rv.Content,
		Author:          rv.Author,
		PublicationDate: pub,
		ScrapeDate:      scrape,
	}, nil
}

func wantsHTML(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
