package domain

import "time"

const day = 24 * time.Hour

// DateOnly drops the clock and keeps the calendar date as seen in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddCalendarDays moves a date by n calendar days. No business-day adjustment.
func AddCalendarDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// DaysBetween returns the signed number of calendar days from b to a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(a).Sub(DateOnly(b)) / day)
}

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ErrInvalidPeriod
	}
	if DateOnly(p.Start).After(DateOnly(p.End)) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains reports whether t falls on a date inside the period.
func (p Period) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(p.Start)) && !d.After(DateOnly(p.End))
}
