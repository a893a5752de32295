package csvbatch

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"reviewpulse/internal/core/review"
	"reviewpulse/internal/core/reviewid"
	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/testkit"
)

const sample = "\ufeffreview_id,rating,content,author,publication_date,scrape_date\n" +
	`"","5","Super produit!","Alice","2024-01-01","2024-01-02"` + "\n" +
	`"abc","1.0","Nul, vraiment
nul","Bob","2024-01-02","2024-01-02"` + "\n" +
	`"","","","Carl","2024-01-03","2024-01-03"` + "\n"

func TestRead(t *testing.T) {
	t.Parallel()

	rows, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].ReviewID != reviewid.Of("Alice", "Super produit!", testkit.MustDay(t, "2024-01-01")) {
		t.Fatalf("missing id should be derived: %+v", rows[0])
	}
	if rows[1].ReviewID != "abc" || rows[1].Rating != 1 || rows[1].Content != "Nul, vraiment\nnul" {
		t.Fatalf("row 1 = %+v", rows[1])
	}
	if rows[2].Rating != 0 || rows[2].Content != "" {
		t.Fatalf("row 2 = %+v", rows[2])
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":        "",
		"bad header":   "id,rating,content,author,publication_date,scrape_date\n",
		"short row":    strings.Join(Header, ",") + "\na,b\n",
		"bad rating":   strings.Join(Header, ",") + "\n,cinq,x,a,2024-01-01,2024-01-01\n",
		"rating 7":     strings.Join(Header, ",") + "\n,7,x,a,2024-01-01,2024-01-01\n",
		"rating -2":    strings.Join(Header, ",") + "\n,-2,x,a,2024-01-01,2024-01-01\n",
		"bad pub date": strings.Join(Header, ",") + "\n,5,x,a,01/01/2024,2024-01-01\n",
		"bad scrape":   strings.Join(Header, ",") + "\n,5,x,a,2024-01-01,\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in))
			if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestWriteThenFetch(t *testing.T) {
	t.Parallel()

	rows := []review.Review{
		{Rating: 4, Content: `dit "ok", puis part`, Author: "Zoé", PublicationDate: testkit.MustDay(t, "2025-01-08"), ScrapeDate: testkit.MustDay(t, "2025-01-10")},
		{Content: "sans note", Author: "X", PublicationDate: testkit.MustDay(t, "2025-01-09"), ScrapeDate: testkit.MustDay(t, "2025-01-10")},
	}
	for i := range rows {
		rows[i] = rows[i].WithID()
	}

	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "review_id,rating,content,author,publication_date,scrape_date\n") {
		t.Fatalf("header = %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := WriteFile(path, rows); err != nil {
		t.Fatal(err)
	}
	got, err := File{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != rows[0] || got[1] != rows[1] {
		t.Fatalf("got %+v\nwant %+v", got, rows)
	}
}

func TestFetch_Missing(t *testing.T) {
	t.Parallel()

	if _, err := (File{Path: filepath.Join(t.TempDir(), "none.csv")}).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
