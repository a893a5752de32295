// Package themescore validates model output against the theme catalog.
//
// The model is asked for {"themes":[{"theme":string,"note":number}]}. Validate
// keeps every well-formed element naming a known theme with a note in [1,5] and
// records why the others were dropped. The outcome is three-way:
//
//	Some(scores)  Result.OK() is true
//	None(reason)  Result.OK() is false and Result.Reason says why
//	Error(err)    the text is not JSON at all; err wraps ErrUnparseable
package themescore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	perr "reviewpulse/internal/platform/errors"
	"reviewpulse/internal/platform/logger"
)

// Note bounds, inclusive
const (
	MinNote = 1.0
	MaxNote = 5.0
)

// ErrUnparseable marks model output that could not be decoded as JSON
var ErrUnparseable = errors.New("unparseable model output")

// None reasons
const (
	ReasonNotObject      = "top level is not an object"
	ReasonMissingThemes  = "themes key missing"
	ReasonThemesNotArray = "themes is not an array"
	ReasonNoValidThemes  = "no valid themes"
)

// Element rejection reasons
const (
	RejectNotObject     = "element is not an object"
	RejectThemeMissing  = "theme missing"
	RejectThemeNotText  = "theme is not a string"
	RejectUnknownTheme  = "unknown theme"
	RejectNoteMissing   = "note missing"
	RejectNoteNotNumber = "note is not a number"
	RejectNoteRange     = "note out of range"
)

// ThemeScore is one accepted (theme, note) pair
type ThemeScore struct {
	Theme string  `json:"theme"`
	Note  float64 `json:"note"`
}

// Labels is the set of theme names the model may use, matched exactly
type Labels map[string]struct{}

// NewLabels builds a label set
func NewLabels(names ...string) Labels {
	l := make(Labels, len(names))
	for _, n := range names {
		l[n] = struct{}{}
	}
	return l
}

// Has reports an exact, case-sensitive match
func (l Labels) Has(name string) bool {
	_, ok := l[name]
	return ok
}

// Rejection explains why one element of the themes array was skipped
type Rejection struct {
	Index  int    `json:"index"`
	Theme  string `json:"theme,omitempty"`
	Reason string `json:"reason"`
}

// Result is the validated outcome of one model answer
type Result struct {
	Scores   []ThemeScore `json:"scores,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Rejected []Rejection  `json:"rejected,omitempty"`
}

// OK reports whether at least one score survived validation
func (r Result) OK() bool { return len(r.Scores) > 0 }

// Validate parses text and filters its themes against known.
// A non-nil error is returned only when text is not JSON
func Validate(text string, known Labels) (Result, error) {
	body := StripFences(text)

	root, err := decode(body)
	if err != nil {
		logger.Named("themescore").Error().Err(err).Str("response", clip(text)).Msg("model output is not valid JSON")
		return Result{}, perr.Wrap(fmt.Errorf("%w: %v", ErrUnparseable, err), perr.ErrorCodeJSON, "model output is not valid JSON")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return none(ReasonNotObject, text, nil), nil
	}
	rawThemes, ok := obj["themes"]
	if !ok {
		return none(ReasonMissingThemes, text, nil), nil
	}
	items, ok := rawThemes.([]any)
	if !ok {
		return none(ReasonThemesNotArray, text, nil), nil
	}

	var res Result
	for i, item := range items {
		score, rej, ok := element(i, item, known)
		if !ok {
			logger.Named("themescore").Warn().
				Int("index", i).
				Str("theme", rej.Theme).
				Str("reason", rej.Reason).
				Msg("theme element rejected")
			res.Rejected = append(res.Rejected, rej)
			continue
		}
		res.Scores = append(res.Scores, score)
	}

	if len(res.Scores) == 0 {
		return none(ReasonNoValidThemes, text, res.Rejected), nil
	}
	return res, nil
}

func element(i int, item any, known Labels) (ThemeScore, Rejection, bool) {
	rej := Rejection{Index: i}

	m, ok := item.(map[string]any)
	if !ok {
		rej.Reason = RejectNotObject
		return ThemeScore{}, rej, false
	}

	rawTheme, ok := m["theme"]
	if !ok || rawTheme == nil {
		rej.Reason = RejectThemeMissing
		return ThemeScore{}, rej, false
	}
	theme, ok := rawTheme.(string)
	if !ok {
		rej.Reason = RejectThemeNotText
		return ThemeScore{}, rej, false
	}
	rej.Theme = theme
	if !known.Has(theme) {
		rej.Reason = RejectUnknownTheme
		return ThemeScore{}, rej, false
	}

	rawNote, ok := m["note"]
	if !ok || rawNote == nil {
		rej.Reason = RejectNoteMissing
		return ThemeScore{}, rej, false
	}
	num, ok := rawNote.(json.Number)
	if !ok {
		rej.Reason = RejectNoteNotNumber
		return ThemeScore{}, rej, false
	}
	note, err := num.Float64()
	if err != nil {
		rej.Reason = RejectNoteNotNumber
		return ThemeScore{}, rej, false
	}
	if !InRange(note) {
		rej.Reason = RejectNoteRange
		return ThemeScore{}, rej, false
	}

	return ThemeScore{Theme: theme, Note: note}, rej, true
}

// InRange reports whether note lies in [MinNote, MaxNote]
func InRange(note float64) bool { return note >= MinNote && note <= MaxNote }

func none(reason, text string, rejected []Rejection) Result {
	logger.Named("themescore").Warn().Str("reason", reason).Str("response", clip(text)).Msg("model output has no usable themes")
	return Result{Reason: reason, Rejected: rejected}
}

// decode keeps numbers as json.Number so booleans and strings never pass as notes
func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected trailing data")
	}
	return v, nil
}

// StripFences removes a surrounding markdown code fence, with or without a language tag
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clip(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
