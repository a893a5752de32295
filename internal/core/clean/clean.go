// Package clean prepares scraped reviews for ingestion
// Text pipeline
// 1 drop control runes and invalid UTF-8
// 2 Unicode NFC so composed and decomposed accents compare equal
// 3 remove emoji blocks and zero-width format runes
// 4 collapse whitespace runs to one space and trim
package clean

import (
	"strings"
	"sync"
	"unicode"

	"reviewpulse/internal/core/review"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// emoji ranges scrubbed from verbatims: emoticons, pictographs, transport, flags
var emoji = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
	},
}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(emoji)),
			runes.Remove(runes.In(unicode.Cf)), // zero width joiners and BOM
		)
	},
}

// Text returns the cleaned form of s
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// Blank reports content that carries no verbatim: empty or a lone "?"
func Blank(content string) bool {
	c := strings.TrimSpace(content)
	return c == "" || c == "?"
}

// Stats reports what a batch pass removed
type Stats struct {
	Before     int `json:"rows_before"`
	After      int `json:"rows_after"`
	Blank      int `json:"blank"`
	Duplicates int `json:"duplicates"`
}

// Removed is the number of rows dropped
func (s Stats) Removed() int { return s.Before - s.After }

// Batch cleans every review, drops blank verbatims, keeps the first row per natural key
// and recomputes ids from the cleaned text. Input order is preserved
func Batch(in []review.Review) ([]review.Review, Stats) {
	st := Stats{Before: len(in)}
	out := make([]review.Review, 0, len(in))
	seen := make(map[review.Key]struct{}, len(in))

	for _, r := range in {
		if Blank(r.Content) {
			st.Blank++
			continue
		}
		r.Content = Text(r.Content)
		r.Author = Text(r.Author)
		if Blank(r.Content) {
			st.Blank++
			continue
		}
		k := r.NaturalKey()
		if _, dup := seen[k]; dup {
			st.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		r.ReviewID = r.ComputeID()
		out = append(out, r)
	}
	st.After = len(out)
	return out, st
}
