package util

import "time"

// FiscalYearStart is April 1 of the Indian fiscal year containing t.
func FiscalYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, t.Location())
}

// MonthsBetween is the fractional number of 30-day months from `from` to `to`.
// Negative when `to` is in the past.
func MonthsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / (24 * 30)
}
