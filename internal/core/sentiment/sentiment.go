// Package sentiment turns validated theme scores into topic analysis records
package sentiment

import (
	"strconv"
	"time"

	"reviewpulse/internal/core/themescore"

	"github.com/google/uuid"
)

// Sentiment labels, from most negative to most positive
const (
	VeryNegative = "Very negative"
	Negative     = "Negative"
	Neutral      = "Neutral"
	Positive     = "Positive"
	VeryPositive = "Very positive"
)

// TopicLabels maps a catalog theme label to its warehouse topic id
type TopicLabels map[string]string

// Record is one row of topic_analysis
type Record struct {
	ID             string    `json:"id"`
	ReviewID       string    `json:"review_id"`
	TopicID        string    `json:"topic_id"`
	ScoreSentiment float64   `json:"score_sentiment"`
	LabelSentiment string    `json:"label_sentiment"`
	Score01        float64   `json:"score_0_1"`
	CreatedAt      time.Time `json:"created_at"`
}

type options struct {
	newID func() string
	now   func() time.Time
}

// Option tunes ScoreAndMap
type Option func(*options)

// WithIDs replaces the uuid generator
func WithIDs(fn func() string) Option { return func(o *options) { o.newID = fn } }

// WithClock fixes CreatedAt
func WithClock(fn func() time.Time) Option { return func(o *options) { o.now = fn } }

// ScoreAndMap builds one record per score whose theme maps to a topic id.
// Unmapped themes are returned once each, in first-seen order
func ScoreAndMap(reviewID string, scores []themescore.ThemeScore, labels TopicLabels, opts ...Option) ([]Record, []string) {
	o := options{
		newID: func() string { return uuid.NewString() },
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, fn := range opts {
		fn(&o)
	}

	var (
		records []Record
		unknown []string
		seen    map[string]struct{}
	)
	now := o.now()
	for _, s := range scores {
		topicID, ok := labels[s.Theme]
		if !ok {
			if seen == nil {
				seen = make(map[string]struct{})
			}
			if _, dup := seen[s.Theme]; !dup {
				seen[s.Theme] = struct{}{}
				unknown = append(unknown, s.Theme)
			}
			continue
		}
		if !themescore.InRange(s.Note) {
			continue
		}
		score := Score01(s.Note)
		records = append(records, Record{
			ID:             o.newID(),
			ReviewID:       reviewID,
			TopicID:        topicID,
			ScoreSentiment: s.Note,
			LabelSentiment: Label(score),
			Score01:        score,
			CreatedAt:      now,
		})
	}
	return records, unknown
}

// Score01 maps a 1..5 satisfaction note onto 0..1 where 1 is most negative,
// correctly rounded to hundredths from the exact binary value, ties to even
func Score01(note float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat((5-note)/4, 'f', 2, 64), 64)
	return v
}

// Label buckets a Score01 value, first threshold met wins
func Label(score float64) string {
	switch {
	case score >= 0.85:
		return VeryNegative
	case score >= 0.65:
		return Negative
	case score >= 0.40:
		return Neutral
	case score >= 0.25:
		return Positive
	default:
		return VeryPositive
	}
}
