package domain

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Unit is a weight unit.
type Unit string

// Supported weight units.
const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lbs"
)

var (
	// ErrInvalidWeight indicates a non-positive weight value.
	ErrInvalidWeight = errors.New("weight must be > 0")
	// ErrInvalidUnit indicates a unit other than kg or lbs.
	ErrInvalidUnit = errors.New("unit must be \"kg\" or \"lbs\"")
)

// ParseUnit accepts "kg", "lbs" and the short form "lb".
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "kg":
		return Kilograms, nil
	case "lbs", "lb":
		return Pounds, nil
	}
	return "", ErrInvalidUnit
}

// WeightEntry represents a single weight measurement. The unit is recorded
// per entry so that changing the profile unit leaves history intact.
type WeightEntry struct {
	ID     string    `json:"id"`
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
	Unit   Unit      `json:"unit"`
}

// In returns the weight converted to unit.
func (e WeightEntry) In(unit Unit) float64 {
	return ConvertWeight(e.Weight, e.Unit, unit)
}

// SortWeightsDesc orders entries most recent first, the order the trend
// predictor relies on.
func SortWeightsDesc(entries []WeightEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

// WeightLog is a snapshot of the weight history, sorted descending by date.
type WeightLog struct {
	Entries []WeightEntry
}

// Clone returns a deep copy.
func (l WeightLog) Clone() WeightLog {
	if l.Entries == nil {
		return WeightLog{}
	}
	return WeightLog{Entries: append([]WeightEntry(nil), l.Entries...)}
}

// UserProfile holds the single user's goals.
type UserProfile struct {
	Name         string  `json:"name"`
	TargetWeight float64 `json:"targetWeight"`
	WeightUnit   Unit    `json:"weightUnit"`
	FastingGoal  float64 `json:"fastingGoal"`
}

// DefaultProfile is used until the user edits their profile.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:         "Your Name",
		TargetWeight: 70,
		WeightUnit:   Kilograms,
		FastingGoal:  16,
	}
}

// WeightRepository is the port for weight persistence.
type WeightRepository interface {
	LoadWeights(ctx context.Context) (WeightLog, error)
	SaveWeights(ctx context.Context, log WeightLog) error
}

// ProfileRepository is the port for profile persistence. LoadProfile returns
// DefaultProfile when nothing has been stored yet.
type ProfileRepository interface {
	LoadProfile(ctx context.Context) (UserProfile, error)
	SaveProfile(ctx context.Context, p UserProfile) error
}
