package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "reviewpulse/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

func get(t *testing.T, d Deps, path string) map[string]any {
	t.Helper()
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), d)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status %d", path, rec.Code)
	}
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, _ := env.Data.(map[string]any)
	return data
}

func TestHealth(t *testing.T) {
	started := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	d := Deps{ServiceName: "reviewpulse-api", StartedAt: started, Now: func() time.Time { return started.Add(90 * time.Second) }}
	data := get(t, d, "/healthz")
	if data["ok"] != true || data["service"] != "reviewpulse-api" || data["uptime_s"] != float64(90) {
		t.Fatalf("health = %#v", data)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name string
		wh   any
		ch   any
		want string
	}{
		{"all up", pinger{}, pinger{}, "ok"},
		{"no clickhouse", pinger{}, nil, "ok"},
		{"clickhouse down", pinger{}, pinger{err: errors.New("dial")}, "degraded"},
		{"warehouse down", pinger{err: errors.New("dial")}, pinger{}, "fail"},
		{"no warehouse", nil, nil, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := get(t, Deps{Warehouse: tc.wh, Analytics: tc.ch}, "/readyz")
			if data["status"] != tc.want {
				t.Fatalf("status = %v, want %s (%#v)", data["status"], tc.want, data["checks"])
			}
		})
	}
}

func TestVersion(t *testing.T) {
	if data := get(t, Deps{}, "/version"); data == nil {
		t.Fatalf("version payload missing")
	}
}
