// Package dateutil provides the day arithmetic the grid builders rely on.
// All functions operate on local calendar fields; no timezone conversion
// happens anywhere in this package.
package dateutil

import "time"

// Midnight truncates d to 00:00:00 of its calendar day, keeping the location.
func Midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// SameDay reports whether a and b fall on the same calendar day,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfWeek returns the Monday of the week containing d, at midnight.
// Weeks are Monday-first regardless of locale: Sunday steps back six days,
// any other weekday steps back to the preceding Monday.
func StartOfWeek(d time.Time) time.Time {
	wd := int(d.Weekday())
	offset := 1 - wd
	if wd == 0 {
		offset = -6
	}
	return Midnight(AddDays(d, offset))
}

// AddDays shifts d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// AddMonths shifts d by n calendar months with normalized rollover
// (Jan 31 + 1 month lands in early March, same as the day-count overflow
// of the underlying date arithmetic; no clamping is applied).
func AddMonths(d time.Time, n int) time.Time {
	return d.AddDate(0, n, 0)
}

// StartOfMonth returns the first day of d's month at midnight.
func StartOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// EndOfMonth returns the last day of d's month at midnight.
func EndOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, d.Location())
}

// DaysInMonth returns the number of days in d's month.
func DaysInMonth(d time.Time) int {
	return EndOfMonth(d).Day()
}

// IsSaturday reports whether d falls on a Saturday.
func IsSaturday(d time.Time) bool {
	return d.Weekday() == time.Saturday
}
