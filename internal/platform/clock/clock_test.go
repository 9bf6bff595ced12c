package clock_test

import (
	"testing"
	"time"

	"urworld/internal/platform/clock"
)

func TestDaysBetweenCountsCalendarDays(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC), time.Date(2026, 3, 1, 23, 55, 0, 0, time.UTC), 0},
		{"late to early", time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC), 1},
		{"gap", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC), 5},
		{"backwards", time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := clock.DaysBetween(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, got)
			}
		})
	}
}

func TestDateStringRoundTrip(t *testing.T) {
	t.Parallel()
	day := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)
	s := clock.DateString(day)
	if s != "Thu Oct 15 2026" {
		t.Fatalf("unexpected date string %q", s)
	}
	parsed, err := clock.ParseDateString(s, time.UTC)
	if err != nil {
		t.Fatalf("parse date string: %v", err)
	}
	if !parsed.Equal(clock.Day(day)) {
		t.Fatalf("expected %v, got %v", clock.Day(day), parsed)
	}
}
