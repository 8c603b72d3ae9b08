// Package patterns provides temporal sampling helpers for transaction
// generation: day-of-month weighting and calendar math.
package patterns

import (
	"time"

	"github.com/rewardsense/synthgen/internal/utils"
)

// Category groupings that shape when in the month spend lands.
// Monthly bills cluster around the 1st and 15th, discretionary spend
// skews toward weekends.
var (
	billLike = map[string]bool{
		"utilities": true,
		"insurance": true,
		"streaming": true,
	}
	weekendHeavy = map[string]bool{
		"dining":          true,
		"entertainment":   true,
		"online_shopping": true,
		"travel":          true,
	}
	weekdayHeavy = map[string]bool{
		"utilities": true,
		"insurance": true,
	}
)

// isWeekendish treats days 6, 7, 13, 14, ... as weekends. This is an
// approximation on day-of-month rather than the real calendar, which
// keeps the weighting identical for every month.
func isWeekendish(day int) bool {
	r := day % 7
	return r == 6 || r == 0
}

// DayWeights returns sampling weights for days minDay through maxDay
// of a month, shaped by the category's spending pattern. The slice has
// maxDay-minDay+1 entries; index i corresponds to day minDay+i.
func DayWeights(category string, minDay, maxDay int) []float64 {
	if maxDay < minDay {
		return nil
	}
	weights := make([]float64, maxDay-minDay+1)
	for i := range weights {
		weights[i] = 1.0
	}

	switch {
	case billLike[category]:
		for i := range weights {
			d := minDay + i
			if d <= 5 || (d >= 15 && d <= 20) {
				weights[i] = 3.0
			}
		}
	case weekendHeavy[category]:
		for i := range weights {
			if isWeekendish(minDay + i) {
				weights[i] = 1.8
			}
		}
	case weekdayHeavy[category]:
		for i := range weights {
			if !isWeekendish(minDay + i) {
				weights[i] = 1.3
			}
		}
	}

	return weights
}

// SampleDay picks a day in [minDay, maxDay] using the category's day
// weights. Degenerate ranges collapse to minDay.
func SampleDay(rng *utils.Random, category string, minDay, maxDay int) int {
	if maxDay <= minDay {
		return minDay
	}
	idx := rng.WeightedIndex(DayWeights(category, minDay, maxDay))
	if idx < 0 {
		return minDay
	}
	return minDay + idx
}

// DaysIn returns the number of calendar days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
