package threshold

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var helsinki = time.FixedZone("EEST", 3*60*60)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, helsinki)
}

func TestNextSolstice(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{"new year", date(2026, time.January, 1), time.Date(2026, time.June, 21, 0, 0, 0, 0, helsinki)},
		{"day before", date(2026, time.June, 20), time.Date(2026, time.June, 21, 0, 0, 0, 0, helsinki)},
		{"solstice itself", date(2026, time.June, 21), time.Date(2026, time.June, 21, 0, 0, 0, 0, helsinki)},
		{"day after", date(2026, time.June, 22), time.Date(2027, time.June, 21, 0, 0, 0, 0, helsinki)},
		{"july", date(2026, time.July, 1), time.Date(2027, time.June, 21, 0, 0, 0, 0, helsinki)},
		{"new years eve", date(2026, time.December, 31), time.Date(2027, time.June, 21, 0, 0, 0, 0, helsinki)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(NextSolstice(tt.now)),
				"NextSolstice(%s) = %s, want %s", tt.now, NextSolstice(tt.now), tt.expected)
		})
	}
}

func TestDaysUntilSolstice(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"solstice", date(2026, time.June, 21), 0},
		{"solstice late evening", time.Date(2026, time.June, 21, 23, 59, 0, 0, helsinki), 0},
		{"day before", date(2026, time.June, 20), 1},
		{"day after", date(2026, time.June, 22), 364},
		{"day after before leap year", date(2027, time.June, 22), 365},
		{"winter midpoint", date(2025, time.December, 20), 183},
		{"across dst change", date(2026, time.March, 1), 112},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysUntilSolstice(tt.now))
		})
	}
}

func TestSeasonalPeak(t *testing.T) {
	floor, ceiling := 10000, 70000

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"solstice is cap", date(2026, time.June, 21), 70000},
		{"winter midpoint is floor", date(2025, time.December, 20), 10000},
		{"day before solstice", date(2026, time.June, 20), 69672},
		{"day after solstice", date(2026, time.June, 22), 69344},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeasonalPeak(tt.now, floor, ceiling))
		})
	}
}

func TestSeasonalPeak_Bounds(t *testing.T) {
	floor, ceiling := 10000, 70000
	step := float64(ceiling-floor) / halfYearDays

	day := date(2026, time.January, 1)
	for i := 0; i < 730; i++ {
		peak := SeasonalPeak(day, floor, ceiling)
		// diff_days can reach 365, one step past the winter midpoint on the far side
		assert.GreaterOrEqual(t, peak, floor, "date %s", day.Format(time.DateOnly))
		assert.LessOrEqual(t, float64(peak), float64(ceiling)+step, "date %s", day.Format(time.DateOnly))
		day = day.AddDate(0, 0, 1)
	}
}

func TestSeasonalPeak_Symmetric(t *testing.T) {
	floor, ceiling := 10000, 70000
	step := float64(ceiling-floor) / halfYearDays
	solstice := date(2026, time.June, 21)

	for _, offset := range []int{1, 7, 30, 90, 150, 180} {
		before := SeasonalPeak(solstice.AddDate(0, 0, -offset), floor, ceiling)
		after := SeasonalPeak(solstice.AddDate(0, 0, offset), floor, ceiling)

		// The envelope pivots on day 183 of a 365 day cycle, so mirrored
		// dates differ by at most one step
		assert.InDelta(t, before, after, step+1, "offset %d days", offset)
	}
}

func TestSeasonalPeak_FlatEnvelope(t *testing.T) {
	day := date(2026, time.January, 1)
	for i := 0; i < 366; i++ {
		assert.Equal(t, 20000, SeasonalPeak(day, 20000, 20000))
		day = day.AddDate(0, 0, 1)
	}
}
