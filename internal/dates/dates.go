package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseable marks a timestamp string the normalizer could not resolve.
// Callers skip the candidate, they don't abort the run.
var ErrUnparseable = errors.New("unparseable date")

// Listing pages show times like "Mar 16, 06:11" without a year.
const partialLayout = "Jan 2, 15:04"

// Normalize resolves a source timestamp into an absolute time in loc.
//
// Year-less stamps get the year of now; if that lands strictly in the
// future the stamp must be from last year (the source only describes past
// events), so one year is subtracted. Full ISO-8601 stamps with an offset
// are parsed directly and converted into loc.
func Normalize(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}

	if t, err := time.ParseInLocation(partialLayout, raw, loc); err == nil {
		return repairYear(t, now, loc), nil
	}

	// Last chance: let dateparse have a go at whatever format this is.
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	if t.Year() == 0 {
		t = repairYear(t, now, loc)
	}
	return t.In(loc), nil
}

// repairYear pins a year-less parse result to now's year, rolling back one
// year when the naive result would be in the future.
func repairYear(t, now time.Time, loc *time.Location) time.Time {
	fixed := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	if fixed.After(now) {
		fixed = fixed.AddDate(-1, 0, 0)
	}
	return fixed
}

// Policy selects how "fresh enough to post" is decided.
type Policy string

const (
	// PolicyCalendarDay accepts items published on the same calendar day
	// as now, in now's location.
	PolicyCalendarDay Policy = "calendar-day"
	// PolicyWindow accepts items published within the rolling window
	// ending at now.
	PolicyWindow Policy = "window"
)

// Fresh reports whether t passes the configured freshness policy.
func Fresh(t, now time.Time, policy Policy, window time.Duration) bool {
	switch policy {
	case PolicyCalendarDay:
		y1, m1, d1 := t.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	default:
		return now.Sub(t) <= window
	}
}
