package service

import "time"

// CalendarDaysBetween returns the number of whole calendar days between from
// and to. A return on the same calendar day as the rental counts as zero
// days. A negative interval (clock skew, to before from) is floored at zero
// so a fee can never be negative.
func CalendarDaysBetween(from, to time.Time) int {
	from = from.UTC()
	to = to.UTC()

	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	days := int(toDay.Sub(fromDay) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// RentalFee computes the fee owed for a rental of the given whole-day length.
func RentalFee(days int, dailyRate float64) float64 {
	return float64(days) * dailyRate
}
