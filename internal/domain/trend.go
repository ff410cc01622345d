package domain

import (
	"math"
	"time"
)

// TrendWindow is the number of most recent entries the predictor uses.
const TrendWindow = 4

// PredictDaysToTarget estimates how many days it takes to reach target at the
// average per-day loss over the most recent TrendWindow entries. history must
// be sorted most recent first and expressed in a single unit.
//
// ok is false when there is not enough signal: fewer than two entries, all
// samples at the same instant, or no downward trend. A history whose latest
// weight equals target yields 0 regardless of trend.
func PredictDaysToTarget(history []WeightEntry, target float64) (days int, ok bool) {
	if len(history) < 2 {
		return 0, false
	}

	diff := math.Abs(history[0].Weight - target)
	if diff == 0 {
		return 0, true
	}

	rate, ok := DailyLossRate(history)
	if !ok || rate <= 0 {
		return 0, false
	}
	return int(math.Round(diff / rate)), true
}

// DailyLossRate returns the average weight lost per day over the most recent
// TrendWindow entries. A gain yields a negative rate. ok is false when fewer
// than two entries exist or they span no time.
func DailyLossRate(history []WeightEntry) (float64, bool) {
	n := min(len(history), TrendWindow)
	if n < 2 {
		return 0, false
	}

	window := make([]WeightEntry, n)
	for i := range n {
		window[i] = history[n-1-i]
	}

	var change, days float64
	for i := 1; i < n; i++ {
		change += window[i-1].Weight - window[i].Weight
		days += float64(window[i].Date.Sub(window[i-1].Date)) / float64(24*time.Hour)
	}
	if days == 0 {
		return 0, false
	}
	return change / days, true
}
