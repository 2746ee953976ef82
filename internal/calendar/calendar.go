// Package calendar resolves abstract delivery weekday names to concrete dates
// inside a target week window.
package calendar

import (
	"strings"
	"time"
)

// Window is a Sunday-to-Saturday target week. Start is the Sunday and End the
// Saturday, both at midnight UTC; delivery dates are date-only values.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor computes the target week window from today. A weekOffset of 0 is
// the week containing today; 1 is the following week (the usual target for
// upcoming-order materialization).
func WindowFor(today time.Time, weekOffset int) Window {
	day := DateOnly(today)
	sunday := day.AddDate(0, 0, -int(day.Weekday()))
	start := sunday.AddDate(0, 0, 7*weekOffset)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 6),
	}
}

// DateOnly truncates a time to midnight UTC on the same calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateFor maps a weekday to its date within the window.
func (w Window) DateFor(day time.Weekday) time.Time {
	return w.Start.AddDate(0, 0, int(day))
}

// Contains reports whether the date falls inside the window bounds.
func (w Window) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// ParseWeekday parses a weekday name ("Monday", "tuesday", ...).
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	}
	return time.Sunday, false
}

// ResolveFixedDay maps a weekday name directly to its date within the window.
// It fails on unknown names and, defensively, on dates outside the window
// bounds so malformed week math never produces an out-of-week order.
func (w Window) ResolveFixedDay(name string) (time.Time, bool) {
	day, ok := ParseWeekday(name)
	if !ok {
		return time.Time{}, false
	}
	date := w.DateFor(day)
	if !w.Contains(date) {
		return time.Time{}, false
	}
	return date, true
}

// ResolveEarliestDay picks, among the supported weekday names, the one whose
// date in the window is earliest. It fails when no name parses.
func (w Window) ResolveEarliestDay(names []string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, name := range names {
		date, ok := w.ResolveFixedDay(name)
		if !ok {
			continue
		}
		if !found || date.Before(best) {
			best = date
			found = true
		}
	}
	return best, found
}
