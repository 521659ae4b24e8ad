// Package calendar provides the month arithmetic used by the simulation.
//
// The engine works at monthly resolution: every simulated point is the first
// day of a month at midnight UTC.
package calendar

import "time"

// FirstOfMonth returns the canonical date of the month containing t.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves a canonical month forward (or backward) by n months.
func AddMonths(t time.Time, n int) time.Time {
	return FirstOfMonth(t).AddDate(0, n, 0)
}

// MonthsBetween returns the number of whole calendar months from a to b,
// ignoring the day of month. It is negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Months lists the canonical months from start to end, both included. It is
// empty when end's month precedes start's month.
func Months(start, end time.Time) []time.Time {
	n := MonthsBetween(start, end)
	if n < 0 {
		return nil
	}
	first := FirstOfMonth(start)
	out := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, first.AddDate(0, i, 0))
	}
	return out
}

// Days returns the number of days between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
