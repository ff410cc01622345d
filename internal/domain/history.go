package domain

import (
	"fmt"
	"time"
)

// DayTotal is the fasting time attributed to one calendar day.
type DayTotal struct {
	Day        time.Time `json:"day"`
	TotalHours float64   `json:"totalHours"`
}

// AggregateDaily returns days buckets ending with windowStart's calendar day,
// oldest first. Calendar days are taken in windowStart's location. A
// completed session counts entirely toward the day it started on, even when
// it runs past midnight; open sessions are ignored.
func AggregateDaily(history []FastingSession, windowStart time.Time, days int) []DayTotal {
	if days <= 0 {
		return []DayTotal{}
	}
	loc := windowStart.Location()
	last := startOfDay(windowStart)

	buckets := make([]DayTotal, days)
	index := make(map[string]int, days)
	for i := range days {
		d := last.AddDate(0, 0, i-(days-1))
		buckets[i] = DayTotal{Day: d}
		index[dayKey(d)] = i
	}

	for _, s := range history {
		dur, ok := s.Duration()
		if !ok {
			continue
		}
		i, found := index[dayKey(s.StartTime.In(loc))]
		if !found {
			continue
		}
		buckets[i].TotalHours += dur.Hours()
	}
	return buckets
}

// Summary holds the headline numbers of a fasting history.
type Summary struct {
	TotalFasts     int     `json:"totalFasts"`
	CompletedCount int     `json:"completedCount"`
	AverageHours   float64 `json:"averageHours"`
}

// SummaryStats counts ended fasts, those that met their target, and the mean
// duration of ended fasts. AverageHours is 0 for an empty history.
func SummaryStats(history []FastingSession) Summary {
	var s Summary
	var total float64
	for _, f := range history {
		d, ok := f.Duration()
		if !ok {
			continue
		}
		s.TotalFasts++
		total += d.Hours()
		if f.MetTarget() {
			s.CompletedCount++
		}
	}
	if s.TotalFasts > 0 {
		s.AverageHours = total / float64(s.TotalFasts)
	}
	return s
}

// Timeframe is a chart range.
type Timeframe string

// Chart ranges.
const (
	Week  Timeframe = "week"
	Month Timeframe = "month"
	Year  Timeframe = "year"
)

// ParseTimeframe accepts week, month or year.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case Week, Month, Year:
		return tf, nil
	}
	return "", fmt.Errorf("timeframe must be week, month or year, got %q", s)
}

// Days returns the number of daily buckets in the range.
func (tf Timeframe) Days() int {
	switch tf {
	case Month:
		return 30
	case Year:
		return 365
	default:
		return 7
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
