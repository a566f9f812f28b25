package threshold

import (
	"math"
	"time"
)

const (
	solsticeMonth = time.June
	solsticeDay   = 21

	// halfYearDays is the distance from the summer solstice at which the
	// seasonal envelope bottoms out at the floor.
	halfYearDays = 183
)

// NextSolstice returns the next summer solstice (June 21) on or after the
// calendar date of now, at midnight in now's location
func NextSolstice(now time.Time) time.Time {
	year := now.Year()

	// Past June 21st, the next one is next year
	if now.Month() > solsticeMonth || (now.Month() == solsticeMonth && now.Day() > solsticeDay) {
		year++
	}

	return time.Date(year, solsticeMonth, solsticeDay, 0, 0, 0, 0, now.Location())
}

// DaysUntilSolstice returns the number of calendar days from now's date to
// the next summer solstice (0-365)
func DaysUntilSolstice(now time.Time) int {
	return civilDaysBetween(now, NextSolstice(now))
}

// SeasonalPeak returns the day-level brightness ceiling for now's date.
// The envelope is linear in the distance to the solstice: ceiling on
// June 21, floor half a year away. Equal floor and ceiling disable seasonality.
func SeasonalPeak(now time.Time, floor, ceiling int) int {
	if floor == ceiling {
		return ceiling
	}

	diffDays := DaysUntilSolstice(now)
	step := float64(ceiling-floor) / halfYearDays

	return floor + int(math.RoundToEven(math.Abs(float64(diffDays-halfYearDays))*step))
}

// civilDaysBetween counts whole days between the calendar dates of from and
// to, ignoring time of day and DST transitions
func civilDaysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDate.Sub(fromDate).Hours() / 24)
}
