// internal/domain/renewal/window.go
package renewal

import (
	"math"
	"time"
)

// Window is the calendar-month date range used to select expiring policies:
// the first through last day of the month after the reference time's month.
type Window struct {
	Start time.Time
	End   time.Time
}

// NextMonthWindow computes the renewal window relative to now. Both bounds
// are date-only values in now's location; time.Date normalizes December
// rollover (month 13 becomes January of the next year).
func NextMonthWindow(now time.Time) Window {
	y, m, _ := now.Date()
	start := time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m+2, 0, 0, 0, 0, 0, now.Location()) // day 0 = last day of prior month
	return Window{Start: start, End: end}
}

// StartDate and EndDate return the bounds in YYYY-MM-DD form for use as
// query parameters.
func (w Window) StartDate() string { return w.Start.Format("2006-01-02") }
func (w Window) EndDate() string   { return w.End.Format("2006-01-02") }

// IsScheduledRunDay reports whether t falls on one of the allowed run days:
// the 15th, 20th, 25th, or the last calendar day of the month. The last day
// is computed, never hardcoded.
func IsScheduledRunDay(t time.Time) bool {
	d := t.Day()
	if d == 15 || d == 20 || d == 25 {
		return true
	}

	y, m, _ := t.Date()
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return d == lastDay
}

// DaysRemaining computes ceil((endDate - now) / 1 day) using date-only
// arithmetic. Both operands are truncated to midnight first so that
// time-of-day components cannot introduce off-by-one errors; a policy whose
// end date is exactly 30 days out yields 30. Negative results are possible
// for past-due dates and are returned as-is.
func DaysRemaining(endDate, now time.Time) int {
	end := truncateToDate(endDate)
	today := truncateToDate(now)
	return int(math.Ceil(end.Sub(today).Hours() / 24))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
