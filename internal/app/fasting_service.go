// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fasting/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrFastInProgress indicates that a fast is already open.
	ErrFastInProgress = errors.New("a fast is already in progress")
	// ErrNoActiveFast indicates that there is no open fast to end.
	ErrNoActiveFast = errors.New("no active fast")
)

// FastStatus is an open fast sampled at Now.
type FastStatus struct {
	Session   domain.FastingSession `json:"session"`
	Clock     domain.SessionClock   `json:"clock"`
	TargetEnd time.Time             `json:"targetEnd"`
	Now       time.Time             `json:"now"`
}

// FastingService encapsulates the fasting use cases. It owns the rule that at
// most one fast is open at a time.
type FastingService struct {
	repo  domain.FastingRepository
	clock domain.Clock
	log   *zap.Logger
}

// NewFastingService creates a FastingService backed by the given repository.
func NewFastingService(repo domain.FastingRepository, clock domain.Clock, log *zap.Logger) *FastingService {
	return &FastingService{repo: repo, clock: clock, log: log}
}

// Current returns the open fast, or nil.
func (s *FastingService) Current(ctx context.Context) (*domain.FastingSession, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Current, nil
}

// Start opens a new fast with the given target.
func (s *FastingService) Start(ctx context.Context, targetHours float64) (*domain.FastingSession, error) {
	if err := domain.ValidateTargetHours(targetHours); err != nil {
		return nil, err
	}
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if l.Current != nil {
		return nil, ErrFastInProgress
	}

	now := s.clock.Now()
	fast := domain.NewSession(domain.NewID(now), now, targetHours)
	l.Current = &fast
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("fast started", zap.String("id", fast.ID), zap.Float64("target_hours", targetHours))
	return &fast, nil
}

// StartPlanned opens a fast with today's target from the plan.
func (s *FastingService) StartPlanned(ctx context.Context) (*domain.FastingSession, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, l.Plan.HoursFor(s.clock.Now().Weekday()))
}

// End closes the open fast. When saveToHistory is false the fast is
// discarded instead of recorded.
func (s *FastingService) End(ctx context.Context, saveToHistory bool) (*domain.FastingSession, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if l.Current == nil {
		return nil, ErrNoActiveFast
	}

	done, err := l.Current.Complete(s.clock.Now())
	if err != nil {
		return nil, err
	}
	if saveToHistory {
		l.History = append(l.History, done)
	}
	l.Current = nil
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("fast ended", zap.String("id", done.ID), zap.Bool("saved", saveToHistory), zap.Bool("met_target", done.MetTarget()))
	return &done, nil
}

// Delete removes a fast from history.
func (s *FastingService) Delete(ctx context.Context, id string) (bool, error) {
	l, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	kept := l.History[:0]
	for _, f := range l.History {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(l.History) {
		return false, nil
	}
	l.History = kept
	if err := s.save(ctx, l); err != nil {
		return false, err
	}
	return true, nil
}

// History returns recorded fasts, most recent first.
func (s *FastingService) History(ctx context.Context) ([]domain.FastingSession, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := l.History
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// Status samples the open fast. It returns nil when no fast is open.
func (s *FastingService) Status(ctx context.Context) (*FastStatus, error) {
	cur, err := s.Current(ctx)
	if err != nil || cur == nil {
		return nil, err
	}
	now := s.clock.Now()
	return &FastStatus{
		Session:   *cur,
		Clock:     cur.Clock(now),
		TargetEnd: domain.TargetEnd(cur.StartTime, cur.TargetHours),
		Now:       now,
	}, nil
}

// Plan returns the weekly fasting plan.
func (s *FastingService) Plan(ctx context.Context) (domain.FastingPlan, error) {
	l, err := s.load(ctx)
	if err != nil {
		return domain.FastingPlan{}, err
	}
	return l.Plan, nil
}

// SetPlanDay updates one weekday of the plan.
func (s *FastingService) SetPlanDay(ctx context.Context, day time.Weekday, hours float64) (domain.FastingPlan, error) {
	l, err := s.load(ctx)
	if err != nil {
		return domain.FastingPlan{}, err
	}
	return s.UpdatePlan(ctx, l.Plan.With(day, hours))
}

// UpdatePlan replaces the weekly plan.
func (s *FastingService) UpdatePlan(ctx context.Context, plan domain.FastingPlan) (domain.FastingPlan, error) {
	if err := plan.Validate(); err != nil {
		return domain.FastingPlan{}, err
	}
	l, err := s.load(ctx)
	if err != nil {
		return domain.FastingPlan{}, err
	}
	l.Plan = plan
	if err := s.save(ctx, l); err != nil {
		return domain.FastingPlan{}, err
	}
	return plan, nil
}

// HoursFromDays converts a custom duration given in days to hours, capping it
// at domain.MaxTargetHours. capped reports whether the cap was applied.
func HoursFromDays(days float64) (hours float64, capped bool, err error) {
	if !(days > 0) {
		return 0, false, fmt.Errorf("duration in days must be > 0: %w", domain.ErrInvalidDuration)
	}
	hours = days * 24
	if hours > domain.MaxTargetHours {
		return domain.MaxTargetHours, true, nil
	}
	return hours, false, nil
}

func (s *FastingService) load(ctx context.Context) (domain.FastingLog, error) {
	l, err := s.repo.LoadFasting(ctx)
	if err != nil {
		s.log.Error("load fasting data", zap.Error(err))
		return domain.FastingLog{}, fmt.Errorf("load fasting data: %w", err)
	}
	if l.Plan == (domain.FastingPlan{}) {
		l.Plan = domain.DefaultPlan()
	}
	return l, nil
}

func (s *FastingService) save(ctx context.Context, l domain.FastingLog) error {
	if err := s.repo.SaveFasting(ctx, l); err != nil {
		s.log.Error("save fasting data", zap.Error(err))
		return fmt.Errorf("save fasting data: %w", err)
	}
	return nil
}
