// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sync"

	"fasting/internal/domain"
)

// DB implements an in-memory database storage. Snapshots are copied on the
// way in and out so callers never share slices with the store.
type DB struct {
	mu      sync.Mutex
	fasting domain.FastingLog
	weights domain.WeightLog
	profile *domain.UserProfile
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{fasting: domain.FastingLog{Plan: domain.DefaultPlan()}}
}

// Ensure interfaces are met.
var _ domain.FastingRepository = (*DB)(nil)
var _ domain.WeightRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)

// --- FastingRepository ---

// LoadFasting returns the stored fasting snapshot.
func (db *DB) LoadFasting(ctx context.Context) (domain.FastingLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.fasting.Clone(), nil
}

// SaveFasting replaces the stored fasting snapshot.
func (db *DB) SaveFasting(ctx context.Context, l domain.FastingLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fasting = l.Clone()
	return nil
}

// --- WeightRepository ---

// LoadWeights returns the stored weight history, most recent first.
func (db *DB) LoadWeights(ctx context.Context) (domain.WeightLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.weights.Clone(), nil
}

// SaveWeights replaces the stored weight history.
func (db *DB) SaveWeights(ctx context.Context, l domain.WeightLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.weights = l.Clone()
	domain.SortWeightsDesc(db.weights.Entries)
	return nil
}

// --- ProfileRepository ---

// LoadProfile returns the stored profile or the default one.
func (db *DB) LoadProfile(ctx context.Context) (domain.UserProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.profile == nil {
		return domain.DefaultProfile(), nil
	}
	return *db.profile, nil
}

// SaveProfile stores the profile.
func (db *DB) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.profile = &p
	return nil
}
