// Package dates holds calendar-date helpers. Every date in the app is a
// plain YYYY-MM-DD string; arithmetic goes through UTC midnight so that
// shifting never depends on the local zone or DST.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Parse validates a YYYY-MM-DD string and returns it as UTC midnight.
func Parse(date string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// Format returns the calendar date of t in its own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the wall-clock calendar date for now.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// Shift moves a date by offset calendar days. Month and year boundaries
// (including Feb 29) are handled by time.AddDate.
func Shift(date string, offset int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, offset)), nil
}

// MondayOf returns the Monday of the week containing date.
func MondayOf(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Format(t.AddDate(0, 0, -(wd - 1))), nil
}

// Range lists every date from `from` to `to` inclusive.
func Range(from, to string) ([]string, error) {
	start, err := Parse(from)
	if err != nil {
		return nil, err
	}
	end, err := Parse(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", to, from)
	}

	out := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Format(d))
	}
	return out, nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
