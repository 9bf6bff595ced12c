package clock

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall time. Streaks and daily challenges follow
// the viewer's calendar, so the zone is kept.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Day truncates t to the start of its calendar day in t's location.
func Day(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// DaysBetween counts calendar days from a to b. DST transitions make some
// days 23 or 25 hours long, hence the rounding.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// DateString renders t the way the daily challenge and streak keys expect,
// e.g. "Thu Oct 15 2026".
func DateString(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}

// ParseDateString is the inverse of DateString in the given location.
func ParseDateString(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("Mon Jan 02 2006", s, loc)
}
