package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reviewpulse/internal/core/review"
	"reviewpulse/internal/modkit/httpkit"
	perr "reviewpulse/internal/platform/errors"
	phttp "reviewpulse/internal/platform/net/http"
	classifydom "reviewpulse/internal/services/classify/domain"
	ingestdom "reviewpulse/internal/services/ingest/domain"
	pipelinedom "reviewpulse/internal/services/pipeline/domain"

	"github.com/go-chi/chi/v5"
)

var today = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

type fakeIngest struct {
	batch  []ingestdom.Review
	dedups int
	err    error
}

func (f *fakeIngest) StageAndMerge(_ context.Context, b []ingestdom.Review) (ingestdom.MergeResult, error) {
	f.batch = b
	return ingestdom.MergeResult{Staged: int64(len(b)), Inserted: int64(len(b))}, f.err
}

func (f *fakeIngest) Deduplicate(context.Context) (ingestdom.DedupResult, error) {
	f.dedups++
	return ingestdom.DedupResult{Duplicates: 2, Deleted: 2, Chunks: 1}, nil
}

func (f *fakeIngest) Verbatims(context.Context, time.Time) ([]ingestdom.Verbatim, error) {
	return nil, nil
}

type fakeClassify struct {
	got time.Time
	err error
}

func (f *fakeClassify) Run(_ context.Context, d time.Time) (classifydom.RunSummary, error) {
	f.got = d
	return classifydom.RunSummary{Date: d, Status: classifydom.StatusCompleted, Fetched: 2, Classified: 2, Records: 3}, f.err
}

type fakePipeline struct{ got time.Time }

func (f *fakePipeline) Run(_ context.Context, d time.Time) (pipelinedom.Summary, error) {
	f.got = d
	return pipelinedom.Summary{Date: d, Fetched: 1}, nil
}

type fakeSource struct{ rows []review.Review }

func (f fakeSource) Fetch(context.Context) ([]review.Review, error) { return f.rows, nil }

func mount(d Deps) *chi.Mux {
	m := chi.NewRouter()
	d.Today = func() time.Time { return today }
	Register(phttp.AdaptChi(m), d)
	return m
}

func post(t *testing.T, m http.Handler, path, body string) (*httptest.ResponseRecorder, httpkit.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	var env httpkit.Envelope
	if strings.HasPrefix(rec.Body.String(), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestClassify(t *testing.T) {
	t.Parallel()
	cl := &fakeClassify{}
	m := mount(Deps{Classify: cl})

	rec, env := post(t, m, "/classify", "")
	if rec.Code != http.StatusOK || !cl.got.Equal(today) {
		t.Fatalf("default date: %d %v", rec.Code, cl.got)
	}
	if data, _ := env.Data.(map[string]any); data["status"] != classifydom.StatusCompleted || data["records"] != float64(3) {
		t.Fatalf("data = %#v", env.Data)
	}

	rec, _ = post(t, m, "/classify", `{"run_date":"2024-01-02"}`)
	if rec.Code != http.StatusOK || cl.got.Format("2006-01-02") != "2024-01-02" {
		t.Fatalf("explicit date: %d %v", rec.Code, cl.got)
	}

	rec, env = post(t, m, "/classify", `{"run_date":"02/01/2024"}`)
	if rec.Code < 400 || rec.Code >= 500 || env.Code != perr.ErrorCodeValidation {
		t.Fatalf("bad date: %d %+v", rec.Code, env)
	}
}

func TestClassify_HTMLReport(t *testing.T) {
	t.Parallel()
	m := mount(Deps{Classify: &fakeClassify{}})
	rec, _ := post(t, m, "/classify?format=html", `{"run_date":"2024-01-02"}`)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("html: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<h1>Classification run 2024-01-02</h1>") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestClassify_HardErrorEnvelope(t *testing.T) {
	t.Parallel()
	m := mount(Deps{Classify: &fakeClassify{err: perr.Unavailablef("ANTHROPIC_API_KEY is not set")}})
	rec, env := post(t, m, "/classify", "")
	if rec.Code != http.StatusServiceUnavailable || env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("error: %d %+v", rec.Code, env)
	}
}

func TestIngest_BodyReviews(t *testing.T) {
	t.Parallel()
	in := &fakeIngest{}
	m := mount(Deps{Ingest: in})

	body := `{"dedup":true,"reviews":[
		{"rating":5,"content":"Top 😀","author":"Alice","publication_date":"2024-05-01"},
		{"rating":5,"content":"Top","author":"Alice","publication_date":"2024-05-01","scrape_date":"2024-05-02"},
		{"rating":2,"content":"?","author":"Bob","publication_date":"2024-05-01"}
	]}`
	rec, env := post(t, m, "/ingest", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest: %d %s", rec.Code, rec.Body.String())
	}
	if len(in.batch) != 1 || in.dedups != 1 {
		t.Fatalf("batch=%d dedups=%d", len(in.batch), in.dedups)
	}
	if !in.batch[0].ScrapeDate.Equal(today) || in.batch[0].ReviewID == "" {
		t.Fatalf("defaults not applied: %+v", in.batch[0])
	}
	data, _ := env.Data.(map[string]any)
	if data["fetched"] != float64(3) || data["dedup"] == nil {
		t.Fatalf("data = %#v", data)
	}
}

func TestIngest_Validation(t *testing.T) {
	t.Parallel()
	m := mount(Deps{Ingest: &fakeIngest{}})
	cases := map[string]string{
		"missing author": `{"reviews":[{"content":"x","publication_date":"2024-05-01"}]}`,
		"rating range":   `{"reviews":[{"rating":9,"author":"a","publication_date":"2024-05-01"}]}`,
		"bad date":       `{"reviews":[{"author":"a","publication_date":"May 1"}]}`,
		"unknown field":  `{"items":[]}`,
	}
	for name, body := range cases {
		rec, _ := post(t, m, "/ingest", body)
		if rec.Code < 400 || rec.Code >= 500 {
			t.Fatalf("%s: want 4xx, got %d", name, rec.Code)
		}
	}
}

func TestIngest_ScraperAndUnconfigured(t *testing.T) {
	t.Parallel()
	in := &fakeIngest{}
	src := fakeSource{rows: []review.Review{{Rating: 4, Content: "Bien", Author: "Dan", PublicationDate: today, ScrapeDate: today}}}
	rec, _ := post(t, mount(Deps{Ingest: in, Source: src}), "/ingest", "")
	if rec.Code != http.StatusOK || len(in.batch) != 1 {
		t.Fatalf("scrape ingest: %d batch=%d", rec.Code, len(in.batch))
	}

	rec, _ = post(t, mount(Deps{Ingest: in}), "/ingest", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("no source: want 422, got %d", rec.Code)
	}

	rec, _ = post(t, mount(Deps{}), "/ingest", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no ingest: want 503, got %d", rec.Code)
	}
}

func TestDedupAndPipeline(t *testing.T) {
	t.Parallel()
	in := &fakeIngest{}
	pl := &fakePipeline{}
	m := mount(Deps{Ingest: in, Pipeline: pl})

	rec, env := post(t, m, "/dedup", "")
	if rec.Code != http.StatusOK || in.dedups != 1 {
		t.Fatalf("dedup: %d", rec.Code)
	}
	if data, _ := env.Data.(map[string]any); data["deleted"] != float64(2) {
		t.Fatalf("dedup data = %#v", env.Data)
	}

	rec, _ = post(t, m, "/pipeline", `{"run_date":"2024-05-01"}`)
	if rec.Code != http.StatusOK || pl.got.Format("2006-01-02") != "2024-05-01" {
		t.Fatalf("pipeline: %d %v", rec.Code, pl.got)
	}
}
