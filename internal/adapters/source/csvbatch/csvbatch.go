// Package csvbatch reads and writes review batches as CSV files
package csvbatch

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"reviewpulse/internal/core/review"
	perr "reviewpulse/internal/platform/errors"
	ptime "reviewpulse/internal/platform/time"
)

// Header is the column order of a batch file
var Header = []string{"review_id", "rating", "content", "author", "publication_date", "scrape_date"}

// Read parses a batch. The header row is required and must match Header
func Read(r io.Reader) ([]review.Review, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, perr.InvalidArgf("csv batch is empty")
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read csv header")
	}
	for i, col := range head {
		// tolerate a UTF-8 BOM on the first column
		if strings.TrimPrefix(strings.TrimSpace(col), "\ufeff") != Header[i] {
			return nil, perr.InvalidArgf("csv header column %d is %q, want %q", i+1, col, Header[i])
		}
	}

	var out []review.Review
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read csv batch")
		}
		line, _ := cr.FieldPos(0)
		r, err := decode(rec)
		if err != nil {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "csv line %d", line), "line "+strconv.Itoa(line))
		}
		out = append(out, r)
	}
}

func decode(rec []string) (review.Review, error) {
	var r review.Review
	r.ReviewID = strings.TrimSpace(rec[0])

	if s := strings.TrimSpace(rec[1]); s != "" {
		// ratings sometimes come through a float column
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r, err
		}
		if f < 0 || f > 5 {
			return r, perr.InvalidArgf("rating %s is outside 0..5", s)
		}
		r.Rating = int(f)
	}
	r.Content = rec[2]
	r.Author = rec[3]

	pub, err := ptime.ParseDay(strings.TrimSpace(rec[4]))
	if err != nil {
		return r, err
	}
	scr, err := ptime.ParseDay(strings.TrimSpace(rec[5]))
	if err != nil {
		return r, err
	}
	r.PublicationDate, r.ScrapeDate = pub, scr
	return r.WithID(), nil
}

// Write renders rows with a header line
func Write(w io.Writer, rows []review.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	rec := make([]string, len(Header))
	for _, r := range rows {
		rec[0] = r.ReviewID
		rec[1] = ""
		if r.Rating != 0 {
			rec[1] = strconv.Itoa(r.Rating)
		}
		rec[2] = r.Content
		rec[3] = r.Author
		rec[4] = ptime.FormatDay(r.PublicationDate)
		rec[5] = ptime.FormatDay(r.ScrapeDate)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path, replacing it
func WriteFile(path string, rows []review.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "create %s", path)
	}
	if err := Write(f, rows); err != nil {
		_ = f.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", path)
	}
	return f.Close()
}

// File is a review source backed by one CSV batch on disk
type File struct {
	Path string
}

// Fetch reads the whole file
func (f File) Fetch(ctx context.Context) ([]review.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open %s", f.Path)
	}
	defer func() { _ = fh.Close() }()
	return Read(fh)
}

// String describes the source for logs
func (f File) String() string { return "csv(" + f.Path + ")" }
