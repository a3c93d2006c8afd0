// Package estimator projects how many days the consumable containers
// (fish food and pH solution) will last, from recent daily usage.
package estimator

import (
	"math"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/domain"
)

// DefaultWindow is the number of most recent daily records averaged.
const DefaultWindow = 7

// Usage is one day's start and end level for a single consumable.
type Usage struct {
	Start *float64
	End   *float64
}

// delta returns the day's consumption and whether it counts as usage.
// Missing, non-finite or non-positive deltas (no usage, or a refill) do not count.
func (u Usage) delta() (float64, bool) {
	if u.Start == nil || u.End == nil {
		return 0, false
	}
	d := *u.Start - *u.End
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, false
	}
	return d, true
}

// EstimateDaysRemaining returns the whole number of days currentLevel will last at the
// average daily consumption of the qualifying records in history, or nil when there is
// not enough data to tell. The result is rounded to the nearest day (halves away from
// zero). A missing or invalid currentLevel counts as empty.
func EstimateDaysRemaining(currentLevel float64, history []Usage) *int {
	var sum float64
	var n int
	for _, u := range history {
		if d, ok := u.delta(); ok {
			sum += d
			n++
		}
	}
	if n == 0 {
		return nil
	}

	avg := sum / float64(n)
	if avg <= 0 || math.IsInf(avg, 0) || math.IsNaN(avg) {
		return nil
	}

	level := currentLevel
	if math.IsNaN(level) || level < 0 {
		level = 0
	}
	days := int(math.Max(0, math.Round(level/avg)))
	return &days
}

// Window returns at most n of the most recent records. records must be ordered
// most recent first.
func Window(records []domain.DailyRecord, n int) []domain.DailyRecord {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[:n]
}

// FoodUsage extracts the food container usage from daily records.
func FoodUsage(records []domain.DailyRecord) []Usage {
	out := make([]Usage, len(records))
	for i, r := range records {
		out[i] = Usage{Start: r.FoodLevelStart, End: r.FoodLevelEnd}
	}
	return out
}

// PhUsage extracts the pH solution usage from daily records.
func PhUsage(records []domain.DailyRecord) []Usage {
	out := make([]Usage, len(records))
	for i, r := range records {
		out[i] = Usage{Start: r.PhLevelStart, End: r.PhLevelEnd}
	}
	return out
}

// Estimates holds the days remaining for each consumable; nil means unknown.
type Estimates struct {
	Food       *int `json:"foodDaysRemaining"`
	PhSolution *int `json:"phDaysRemaining"`
}

// Estimate computes both consumable estimates over the most recent window records.
func Estimate(status domain.ContainerStatus, records []domain.DailyRecord, window int) Estimates {
	recent := Window(records, window)
	return Estimates{
		Food:       EstimateDaysRemaining(status.FoodLevel, FoodUsage(recent)),
		PhSolution: EstimateDaysRemaining(status.PhSolutionLevel, PhUsage(recent)),
	}
}
