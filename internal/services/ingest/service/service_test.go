package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewpulse/internal/core/reviewid"
	"reviewpulse/internal/modkit/repokit"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/store/storetest"
	"reviewpulse/internal/platform/testkit"
	"reviewpulse/internal/services/ingest/domain"
	"reviewpulse/internal/services/ingest/repo"
)

func rv(t *testing.T, rating int, content, author, pub, scrape string) domain.Review {
	t.Helper()
	return domain.Review{
		Rating:          rating,
		Content:         content,
		Author:          author,
		PublicationDate: testkit.MustDay(t, pub),
		ScrapeDate:      testkit.MustDay(t, scrape),
	}
}

func TestStageAndMerge_EndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	wh, db := storetest.SQLite(t)
	svc := New(wh, repo.NewSQLite(), Config{})

	batch := []domain.Review{
		rv(t, 5, "Super produit!", "Alice", "2024-01-01", "2024-01-03"),
		rv(t, 1, "Nul", "Bob", "2024-01-02", "2024-01-02"),
		rv(t, 4, "Super produit!", "Alice", "2024-01-01", "2024-01-02"),
	}

	res, err := svc.StageAndMerge(ctx, batch)
	if err != nil {
		t.Fatalf("StageAndMerge: %v", err)
	}
	if res.Staged != 3 || res.Inserted != 2 || res.Skipped() != 1 {
		t.Fatalf("result = %+v", res)
	}
	if n := storetest.Count(t, db, "reviews"); n != 2 {
		t.Fatalf("reviews = %d, want 2", n)
	}

	// the earliest scrape of the shared key wins
	var rating int
	var scrape string
	if err := db.QueryRow(`SELECT rating, scrape_date FROM reviews WHERE author = 'Alice'`).Scan(&rating, &scrape); err != nil {
		t.Fatal(err)
	}
	if rating != 4 || scrape != "2024-01-02" {
		t.Fatalf("kept rating=%d scrape=%s", rating, scrape)
	}

	var id string
	if err := db.QueryRow(`SELECT review_id FROM reviews WHERE author = 'Bob'`).Scan(&id); err != nil {
		t.Fatal(err)
	}
	if id != reviewid.Of("Bob", "Nul", testkit.MustDay(t, "2024-01-02")) {
		t.Fatalf("missing id should be derived, got %s", id)
	}

	dd, err := svc.Deduplicate(ctx)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if dd.Duplicates != 0 || dd.Deleted != 0 || dd.Chunks != 0 {
		t.Fatalf("dedup on a clean store should be a no-op: %+v", dd)
	}
}

func TestStageAndMerge_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	wh, db := storetest.SQLite(t)
	svc := New(wh, repo.NewSQLite(), Config{})

	batch := []domain.Review{
		rv(t, 5, "A", "x", "2024-01-01", "2024-01-02"),
		rv(t, 3, "", "y", "2024-01-01", "2024-01-02"),
	}
	for i := 0; i < 3; i++ {
		res, err := svc.StageAndMerge(ctx, batch)
		if err != nil {
			t.Fatal(err)
		}
		want := int64(0)
		if i == 0 {
			want = 2
		}
		if res.Inserted != want {
			t.Fatalf("run %d inserted %d, want %d", i, res.Inserted, want)
		}
	}
	if n := storetest.Count(t, db, "reviews"); n != 2 {
		t.Fatalf("reviews = %d", n)
	}
	if n := storetest.Count(t, db, "review_staging"); n != 2 {
		t.Fatalf("staging should hold only the last batch, got %d", n)
	}
}

func TestStageAndMerge_EmptyBatch(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{}
	svc := New(fakeTx{}, repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return f }), Config{})
	res, err := svc.StageAndMerge(context.Background(), nil)
	if err != nil || res != (domain.MergeResult{}) {
		t.Fatalf("got %+v %v", res, err)
	}
	if f.calls != 0 {
		t.Fatalf("empty batch must not touch storage")
	}
}

func TestStageAndMerge_InvalidBatch(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.Review{
		"no author":  rv(t, 5, "x", "", "2024-01-01", "2024-01-02"),
		"no pub":     {Content: "x", Author: "a", ScrapeDate: testkit.MustDay(t, "2024-01-02")},
		"no scraped": {Content: "x", Author: "a", PublicationDate: testkit.MustDay(t, "2024-01-02")},
		"rating 6":   rv(t, 6, "x", "a", "2024-01-01", "2024-01-02"),
		"rating -1":  rv(t, -1, "x", "a", "2024-01-01", "2024-01-02"),
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			f := &fakeRepo{}
			svc := New(fakeTx{}, bindTo(f), Config{})
			_, err := svc.StageAndMerge(context.Background(), []domain.Review{rv(t, 1, "ok", "a", "2024-01-01", "2024-01-01"), bad})
			if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if f.calls != 0 {
				t.Fatalf("invalid batch must fail before any write")
			}
		})
	}
}

func TestStageAndMerge_StagingFailureSkipsMerge(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{loadErr: errors.New("disk full")}
	svc := New(fakeTx{}, bindTo(f), Config{})
	_, err := svc.StageAndMerge(context.Background(), []domain.Review{rv(t, 1, "ok", "a", "2024-01-01", "2024-01-01")})
	if perr.CodeOf(err) != perr.ErrorCodeDB || !errors.Is(err, f.loadErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if f.merged {
		t.Fatalf("merge must not run after a staging failure")
	}
}

func TestDeduplicate_ConvergesAndChunks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	wh, db := storetest.SQLite(t)
	svc := New(wh, repo.NewSQLite(), Config{DeleteChunk: 2})

	// bypass the merge to simulate legacy duplicates
	ins := `INSERT INTO reviews (review_id, rating, content, author, publication_date, scrape_date) VALUES (?, ?, ?, ?, ?, ?)`
	for _, r := range [][]any{
		{"k1", 5, "A", "x", "2024-01-01", "2024-01-05"},
		{"k1", 4, "A", "x", "2024-01-01", "2024-01-02"},
		{"k1", 3, "A", "x", "2024-01-01", "2024-01-02"},
		{"k1", 2, "A", "x", "2024-01-01", "2024-01-09"},
		{"k2", 1, nil, "y", "2024-01-01", "2024-01-03"},
		{"k2", 1, nil, "y", "2024-01-01", "2024-01-04"},
		{"k3", 5, "B", "z", "2024-01-01", "2024-01-01"},
	} {
		if _, err := db.Exec(ins, r...); err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.Deduplicate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Duplicates != 4 || res.Deleted != 4 || res.Chunks != 2 {
		t.Fatalf("result = %+v", res)
	}
	if n := storetest.Count(t, db, "reviews"); n != 3 {
		t.Fatalf("reviews = %d, want 3", n)
	}

	// earliest scrape, then lowest row id, survives
	var rating int
	if err := db.QueryRow(`SELECT rating FROM reviews WHERE author = 'x'`).Scan(&rating); err != nil {
		t.Fatal(err)
	}
	if rating != 4 {
		t.Fatalf("survivor rating = %d, want 4", rating)
	}

	again, err := svc.Deduplicate(ctx)
	if err != nil || again.Duplicates != 0 {
		t.Fatalf("second sweep should find nothing: %+v %v", again, err)
	}
}

func TestVerbatims(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	wh, _ := storetest.SQLite(t)
	svc := New(wh, repo.NewSQLite(), Config{})

	_, err := svc.StageAndMerge(ctx, []domain.Review{
		rv(t, 5, "Premier", "a", "2025-01-08", "2025-01-10"),
		rv(t, 5, "", "b", "2025-01-08", "2025-01-10"),
		rv(t, 2, "Autre jour", "c", "2025-01-08", "2025-01-09"),
		rv(t, 1, "Second", "d", "2025-01-09", "2025-01-10"),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Verbatims(ctx, time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Content != "Premier" || got[1].Content != "Second" {
		t.Fatalf("verbatims = %+v", got)
	}
	if got[0].ReviewID != reviewid.Of("a", "Premier", testkit.MustDay(t, "2025-01-08")) {
		t.Fatalf("review id = %s", got[0].ReviewID)
	}

	none, err := svc.Verbatims(ctx, testkit.MustDay(t, "2020-01-01"))
	if err != nil || len(none) != 0 {
		t.Fatalf("expected nothing, got %+v %v", none, err)
	}
}

func TestNew_PanicsOnNil(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { New(nil, repo.NewSQLite(), Config{}) })
	testkit.MustPanic(t, func() { New(fakeTx{}, nil, Config{}) })
}

// fakes

type fakeRepo struct {
	calls   int
	loadErr error
	merged  bool
}

func (f *fakeRepo) TruncateStaging(context.Context) error { f.calls++; return nil }
func (f *fakeRepo) LoadStaging(_ context.Context, rows []domain.Review) (int64, error) {
	f.calls++
	return int64(len(rows)), f.loadErr
}
func (f *fakeRepo) MergeStaging(context.Context) (int64, error) {
	f.calls++
	f.merged = true
	return 0, nil
}
func (f *fakeRepo) DuplicateRowIDs(context.Context) ([]int64, error) { f.calls++; return nil, nil }
func (f *fakeRepo) DeleteRows(context.Context, []int64) (int64, error) {
	f.calls++
	return 0, nil
}
func (f *fakeRepo) Verbatims(context.Context, time.Time) ([]domain.Verbatim, error) {
	f.calls++
	return nil, nil
}

func bindTo(f *fakeRepo) repokit.Binder[domain.StorageRepo] {
	return repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return f })
}

type fakeTx struct{ repokit.Queryer }

func (fakeTx) Tx(_ context.Context, fn func(q repokit.Queryer) error) error { return fn(nil) }
