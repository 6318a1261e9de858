// file: internals/helpers/dbtime/date.go
package dbtime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const LayoutDate = "2006-01-02"

// ParseDate parses "YYYY-MM-DD" into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := time.Parse(LayoutDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (want YYYY-MM-DD): %w", err)
	}
	return t, nil
}

// FormatDate renders the calendar date of t in its own location.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutDate)
}

// DateOnly keeps the calendar date of t (in t's location) as UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now as seen in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// IsAfterToday reports whether date is strictly later than today in loc.
func IsAfterToday(date, now time.Time, loc *time.Location) bool {
	return DateOnly(date).After(Today(now, loc))
}
