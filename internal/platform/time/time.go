// Package time holds the calendar day helpers runs are keyed on
package time

import (
	"fmt"
	"time"
)

// DayLayout is the wire and storage layout of a calendar day
const DayLayout = "2006-01-02"

// Clock returns the current instant. Services take one so tests can pin "today"
type Clock func() time.Time

// System is the wall clock
func System() time.Time { return time.Now() }

// Fixed returns a Clock pinned to t
func Fixed(t time.Time) Clock { return func() time.Time { return t } }

// Day truncates t to midnight UTC of its UTC calendar day
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is Day of the clock reading, nil falls back to the wall clock
func Today(c Clock) time.Time {
	if c == nil {
		c = System
	}
	return Day(c())
}

// FormatDay renders the day part of t
func FormatDay(t time.Time) string { return t.UTC().Format(DayLayout) }

// ParseDay parses a YYYY-MM-DD string into a UTC day
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
