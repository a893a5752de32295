package time

import (
	"testing"
	"time"
)

func TestDayAndToday(t *testing.T) {
	late := time.Date(2025, 1, 10, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	// 23:30 at UTC-2 is already the 11th in UTC
	if got := FormatDay(Day(late)); got != "2025-01-11" {
		t.Fatalf("Day = %s", got)
	}
	if got := Today(Fixed(late)); !got.Equal(time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Today = %v", got)
	}
	if Today(nil).IsZero() {
		t.Fatalf("Today(nil) should read the wall clock")
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-02-29")
	if err != nil || FormatDay(d) != "2024-02-29" || d.Location() != time.UTC {
		t.Fatalf("ParseDay = %v, %v", d, err)
	}
	for _, bad := range []string{"", "2025-02-30", "10/01/2025", "2025-01-10T00:00:00Z"} {
		if _, err := ParseDay(bad); err == nil {
			t.Fatalf("ParseDay(%q) should fail", bad)
		}
	}
}

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("zero time should give nil")
	}
	now := time.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("Ptr mismatch")
	}
}
