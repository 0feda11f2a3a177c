package query

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD (midnight UTC) or RFC3339. dateOnly reports
// which form was used so callers can widen an upper bound to the end of day.
func ParseDate(raw string) (t time.Time, dateOnly bool, err error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, true, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed, false, nil
}

// StartOfDay is 00:00:00.000 in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59.999 in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// CalendarDay pins t's calendar date (in its own location) to midnight UTC.
// Day-granular records are stored this way so equal dates compare equal.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a stored day as YYYY-MM-DD. Stored days are midnight UTC,
// so the value is converted back to UTC whatever location it was scanned in.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
