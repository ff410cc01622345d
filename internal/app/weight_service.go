package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fasting/internal/domain"

	"go.uber.org/zap"
)

// ErrEntryNotFound indicates that no weight entry has the given id.
var ErrEntryNotFound = errors.New("weight entry not found")

// Prediction is the estimated time to reach the target weight.
type Prediction struct {
	// Days is set only when OK is true.
	Days       int         `json:"days"`
	OK         bool        `json:"ok"`
	Current    float64     `json:"current"`
	Target     float64     `json:"target"`
	// Difference is current minus target; positive while above target.
	Difference float64     `json:"difference"`
	// LastChange is latest minus previous; nil with fewer than two entries.
	LastChange *float64    `json:"lastChange"`
	Unit       domain.Unit `json:"unit"`
	Entries    int         `json:"entries"`
}

// WeightService encapsulates weight-tracking and profile use cases.
type WeightService struct {
	repo     domain.WeightRepository
	profiles domain.ProfileRepository
	clock    domain.Clock
	log      *zap.Logger
}

// NewWeightService creates a WeightService backed by the given repositories.
func NewWeightService(repo domain.WeightRepository, profiles domain.ProfileRepository, clock domain.Clock, log *zap.Logger) *WeightService {
	return &WeightService{repo: repo, profiles: profiles, clock: clock, log: log}
}

// RecordWeight validates and stores a new weight measurement. An empty unit
// means the profile unit.
func (s *WeightService) RecordWeight(ctx context.Context, value float64, unit domain.Unit) (*domain.WeightEntry, error) {
	if !(value > 0) {
		return nil, domain.ErrInvalidWeight
	}
	if unit == "" {
		p, err := s.Profile(ctx)
		if err != nil {
			return nil, err
		}
		unit = p.WeightUnit
	}
	if _, err := domain.ParseUnit(string(unit)); err != nil {
		return nil, err
	}

	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	entry := domain.WeightEntry{ID: domain.NewID(now), Weight: value, Date: now, Unit: unit}
	l.Entries = append([]domain.WeightEntry{entry}, l.Entries...)
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("weight recorded", zap.String("id", entry.ID), zap.Float64("weight", value), zap.String("unit", string(unit)))
	return &entry, nil
}

// ListRecent returns the most recent weight entries up to limit. A limit of
// zero or less returns everything.
func (s *WeightService) ListRecent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(l.Entries) > limit {
		return l.Entries[:limit], nil
	}
	return l.Entries, nil
}

// Delete removes the entry with the given id.
func (s *WeightService) Delete(ctx context.Context, id string) error {
	l, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, e := range l.Entries {
		if e.ID == id {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return s.save(ctx, l)
		}
	}
	return ErrEntryNotFound
}

// UndoLast deletes the most recent entry and returns the new latest one.
func (s *WeightService) UndoLast(ctx context.Context) (bool, *domain.WeightEntry, error) {
	l, err := s.load(ctx)
	if err != nil {
		return false, nil, err
	}
	if len(l.Entries) == 0 {
		return false, nil, nil
	}
	l.Entries = l.Entries[1:]
	if err := s.save(ctx, l); err != nil {
		return false, nil, err
	}
	if len(l.Entries) == 0 {
		return true, nil, nil
	}
	latest := l.Entries[0]
	return true, &latest, nil
}

// Profile returns the stored profile.
func (s *WeightService) Profile(ctx context.Context) (domain.UserProfile, error) {
	p, err := s.profiles.LoadProfile(ctx)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// UpdateProfile validates and stores the profile.
func (s *WeightService) UpdateProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.UserProfile{}, errors.New("name must not be empty")
	}
	if !(p.TargetWeight > 0) {
		return domain.UserProfile{}, domain.ErrInvalidWeight
	}
	if _, err := domain.ParseUnit(string(p.WeightUnit)); err != nil {
		return domain.UserProfile{}, err
	}
	if err := domain.ValidateTargetHours(p.FastingGoal); err != nil {
		return domain.UserProfile{}, fmt.Errorf("fasting goal: %w", err)
	}
	if err := s.profiles.SaveProfile(ctx, p); err != nil {
		s.log.Error("save profile", zap.Error(err))
		return domain.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// Prediction estimates how many days remain until the profile target weight
// is reached. Entries are converted to the profile unit first.
func (s *WeightService) Prediction(ctx context.Context) (Prediction, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return Prediction{}, err
	}
	l, err := s.load(ctx)
	if err != nil {
		return Prediction{}, err
	}

	history := make([]domain.WeightEntry, len(l.Entries))
	for i, e := range l.Entries {
		history[i] = domain.WeightEntry{ID: e.ID, Weight: e.In(p.WeightUnit), Date: e.Date, Unit: p.WeightUnit}
	}

	out := Prediction{Target: p.TargetWeight, Unit: p.WeightUnit, Entries: len(history)}
	if len(history) > 0 {
		out.Current = history[0].Weight
		out.Difference = out.Current - p.TargetWeight
	}
	if len(history) > 1 {
		change := history[0].Weight - history[1].Weight
		out.LastChange = &change
	}
	out.Days, out.OK = domain.PredictDaysToTarget(history, p.TargetWeight)
	return out, nil
}

func (s *WeightService) load(ctx context.Context) (domain.WeightLog, error) {
	l, err := s.repo.LoadWeights(ctx)
	if err != nil {
		s.log.Error("load weights", zap.Error(err))
		return domain.WeightLog{}, fmt.Errorf("load weights: %w", err)
	}
	domain.SortWeightsDesc(l.Entries)
	return l, nil
}

func (s *WeightService) save(ctx context.Context, l domain.WeightLog) error {
	if err := s.repo.SaveWeights(ctx, l); err != nil {
		s.log.Error("save weights", zap.Error(err))
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}
