package schedule

import (
	"time"

	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
)

// daysIn returns the number of days of the month containing the given year/month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AdvanceByMonths moves a target date forward by the given number of calendar
// months. If the original date was the last day of its month, the result is the
// last day of the resulting month; otherwise the day-of-month is kept, clamped
// to the resulting month's length.
func AdvanceByMonths(target time.Time, months int) time.Time {
	year, month, day := target.Date()
	wasLastDay := day == daysIn(year, month)

	// Normalise via the first of the target month so AddDate cannot overflow
	// into the month after next (e.g. Jan 31 + 1 month -> Mar 2).
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, target.Location()).AddDate(0, months, 0)
	newYear, newMonth, _ := anchor.Date()

	newDay := day
	if last := daysIn(newYear, newMonth); wasLastDay || day > last {
		newDay = last
	}
	h, m, s := target.Clock()
	return time.Date(newYear, newMonth, newDay, h, m, s, target.Nanosecond(), target.Location())
}

// NextTargetDate advances a recurring plan's target date one interval at a time
// until it is strictly after the booking date. A target already in the future
// is returned unchanged.
func NextTargetDate(target time.Time, interval domain.PlanInterval, bookingDate time.Time) time.Time {
	months := interval.Months()
	for !target.After(bookingDate) {
		target = AdvanceByMonths(target, months)
	}
	return target
}

// AdjustForWeekend moves a due date falling on a Saturday or Sunday to the
// following Monday, mirroring when the bank would actually execute it.
func AdjustForWeekend(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, 2)
	case time.Sunday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}

// SameMonth reports whether two dates fall into the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
