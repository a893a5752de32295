// Package review holds the review record shared by sources, cleaning and ingestion
package review

import (
	"time"

	"reviewpulse/internal/core/reviewid"
)

// Review is one customer review as scraped and cleaned
// Rating is 1 to 5, 0 when the source did not expose one.
// Dates are UTC calendar days.
type Review struct {
	ReviewID        string    `json:"review_id"`
	Rating          int       `json:"rating"`
	Content         string    `json:"content"`
	Author          string    `json:"author"`
	PublicationDate time.Time `json:"publication_date"`
	ScrapeDate      time.Time `json:"scrape_date"`
}

// Key is the natural key two scrapes of the same review share
type Key struct {
	Author  string
	Content string
	Day     string
}

// NaturalKey returns the (author, content, publication day) tuple
func (r Review) NaturalKey() Key {
	return Key{Author: r.Author, Content: r.Content, Day: r.PublicationDate.UTC().Format("2006-01-02")}
}

// ComputeID returns the content address of r
func (r Review) ComputeID() string {
	return reviewid.Of(r.Author, r.Content, r.PublicationDate)
}

// WithID returns r with ReviewID filled from its content when empty
func (r Review) WithID() Review {
	if r.ReviewID == "" {
		r.ReviewID = r.ComputeID()
	}
	return r
}
