package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fasting/internal/domain"
)

// MaxChartDays bounds GetDaily.
const MaxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	fastingRepo domain.FastingRepository
	weightRepo  domain.WeightRepository
	clock       domain.Clock
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(fr domain.FastingRepository, wr domain.WeightRepository, clock domain.Clock) *ChartsService {
	return &ChartsService{fastingRepo: fr, weightRepo: wr, clock: clock}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day          string       `json:"day"`
	FastingHours float64      `json:"fastingHours"`
	Weight       *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64     `json:"value"`
	Unit  domain.Unit `json:"unit"`
	Date  time.Time   `json:"date,omitzero"`
}

// GetDaily returns per-day chart data for the last days days ending today,
// oldest first. Each day carries the fasting hours attributed to it and the
// latest weight recorded that day, converted to unit.
func (s *ChartsService) GetDaily(ctx context.Context, days int, unit domain.Unit) ([]DayPoint, error) {
	if _, err := domain.ParseUnit(string(unit)); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, errors.New("days must be > 0")
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}

	fl, err := s.fastingRepo.LoadFasting(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fasting data: %w", err)
	}
	wl, err := s.weightRepo.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	now := s.clock.Now()
	latest := latestPerDay(wl.Entries, now)
	totals := domain.AggregateDaily(fl.History, now, days)

	points := make([]DayPoint, 0, len(totals))
	for _, t := range totals {
		day := t.Day.Format("2006-01-02")
		var wp *WeightPoint
		if e, ok := latest[day]; ok {
			wp = &WeightPoint{Value: e.In(unit), Unit: unit, Date: e.Date}
		}
		points = append(points, DayPoint{Day: day, FastingHours: t.TotalHours, Weight: wp})
	}
	return points, nil
}

// Timeframe returns the fasting totals for the given chart timeframe.
func (s *ChartsService) Timeframe(ctx context.Context, tf domain.Timeframe) ([]domain.DayTotal, error) {
	fl, err := s.fastingRepo.LoadFasting(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fasting data: %w", err)
	}
	return domain.AggregateDaily(fl.History, s.clock.Now(), tf.Days()), nil
}

// Summary returns the headline statistics over the whole fasting history.
func (s *ChartsService) Summary(ctx context.Context) (domain.Summary, error) {
	fl, err := s.fastingRepo.LoadFasting(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load fasting data: %w", err)
	}
	return domain.SummaryStats(fl.History), nil
}

// WeightSeries returns the last limit weight entries in chronological order,
// converted to unit.
func (s *ChartsService) WeightSeries(ctx context.Context, limit int, unit domain.Unit) ([]WeightPoint, error) {
	if _, err := domain.ParseUnit(string(unit)); err != nil {
		return nil, err
	}
	wl, err := s.weightRepo.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	entries := wl.Entries
	domain.SortWeightsDesc(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]WeightPoint, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = WeightPoint{Value: e.In(unit), Unit: unit, Date: e.Date}
	}
	return out, nil
}

// latestPerDay maps each local calendar day to its most recent entry.
func latestPerDay(entries []domain.WeightEntry, now time.Time) map[string]domain.WeightEntry {
	loc := now.Location()
	out := make(map[string]domain.WeightEntry, len(entries))
	for _, e := range entries {
		day := e.Date.In(loc).Format("2006-01-02")
		if cur, ok := out[day]; !ok || e.Date.After(cur.Date) {
			out[day] = e
		}
	}
	return out
}
