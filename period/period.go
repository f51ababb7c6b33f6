// Package period provides calendar period keys for the forecast grids.
//
// A Key identifies one monthly or weekly time bucket. Monthly keys look like
// "2024-03"; weekly keys cover a Monday-anchored seven-day span and look like
// "2024-03-04 — 2024-03-10". Keys order by calendar position, never by raw
// string comparison, so mixed-width month numbers and span keys still sort
// correctly.
package period

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Granularity selects the width of a forecast period.
type Granularity int

const (
	Monthly Granularity = iota
	Weekly
)

// String returns the string representation of the granularity.
func (g Granularity) String() string {
	switch g {
	case Monthly:
		return "monthly"
	case Weekly:
		return "weekly"
	default:
		return "unknown"
	}
}

// ParseGranularity parses a granularity name. Unknown names default to Monthly.
func ParseGranularity(s string) (Granularity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "":
		return Monthly, true
	case "weekly", "week":
		return Weekly, true
	default:
		return Monthly, false
	}
}

// Key identifies a single monthly or weekly time bucket.
type Key string

// weekSeparator joins the Monday and Sunday dates of a weekly key.
const weekSeparator = " — "

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// MonthKey returns the monthly key containing t.
func MonthKey(t time.Time) Key {
	return Key(t.Format(monthLayout))
}

// WeekKey returns the Monday-anchored weekly key containing t.
func WeekKey(t time.Time) Key {
	monday := Monday(t)
	sunday := monday.AddDate(0, 0, 6)
	return Key(monday.Format(dateLayout) + weekSeparator + sunday.Format(dateLayout))
}

// KeyFor returns the key containing t at the requested granularity.
func KeyFor(t time.Time, g Granularity) Key {
	if g == Weekly {
		return WeekKey(t)
	}
	return MonthKey(t)
}

// Monday returns the Monday of the week containing t, at midnight UTC.
func Monday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.AddDate(0, 0, -int((t.Weekday()+6)%7))
}

// Start returns the first day covered by the key, at midnight UTC.
// Returns the zero time for keys that are not in a recognized format.
func (k Key) Start() time.Time {
	s := string(k)
	if i := strings.Index(s, weekSeparator); i >= 0 {
		s = s[:i]
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(monthLayout, s, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

// IsWeekly reports whether the key identifies a weekly span.
func (k Key) IsWeekly() bool {
	return strings.Contains(string(k), weekSeparator)
}

// Compare orders two keys by calendar position.
func Compare(a, b Key) int {
	return a.Start().Compare(b.Start())
}

// Sort sorts keys in ascending calendar order.
func Sort(keys []Key) {
	slices.SortFunc(keys, Compare)
}

// Sequence generates n consecutive keys starting at the period containing
// start. Monthly sequences advance by calendar month, weekly sequences by
// seven days.
func Sequence(start time.Time, n int, g Granularity) []Key {
	if n <= 0 {
		return nil
	}

	keys := make([]Key, 0, n)
	switch g {
	case Weekly:
		cursor := Monday(start)
		for i := 0; i < n; i++ {
			keys = append(keys, WeekKey(cursor))
			cursor = cursor.AddDate(0, 0, 7)
		}
	default:
		cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < n; i++ {
			keys = append(keys, MonthKey(cursor))
			cursor = cursor.AddDate(0, 1, 0)
		}
	}
	return keys
}

// minYear and maxYear bound the years accepted from statement headers.
// Anything outside this range is assumed to be a misparsed label.
const (
	minYear = 2000
	maxYear = 2100
)

// monthLayouts are tried in order when normalizing a statement column header.
var monthLayouts = []string{
	"2006-01",
	"2006-1",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"Jan 2006",
	"January 2006",
	"Jan-06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeMonth coerces a statement column header into a monthly key.
// Accepts "YYYY-MM", "YYYY/MM", "YYYY.MM" and anything parseable as a date.
// Years outside [2000, 2100] are rejected.
func NormalizeMonth(s string) (Key, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Unify the common separator variants before trying layouts.
	s = strings.NewReplacer("/", "-", ".", "-").Replace(s)

	for _, layout := range monthLayouts {
		layout = strings.NewReplacer("/", "-").Replace(layout)
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.Year() > maxYear {
			return "", false
		}
		return MonthKey(t), true
	}
	return "", false
}

// dateLayouts are tried in order when parsing a full date value.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate parses a date string against a fixed list of layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
