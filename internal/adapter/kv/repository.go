package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fasting/internal/domain"
)

// Keys under the configured prefix.
const (
	KeyCurrentFast    = "currentFast"
	KeyFastingHistory = "fastingHistory"
	KeyFastingPlan    = "fastingPlan"
	KeyWeightHistory  = "weightHistory"
	KeyUserProfile    = "userProfile"
)

// Repository implements the domain repositories on a Store.
type Repository struct {
	store  Store
	prefix string
}

// NewRepository creates a Repository whose keys start with prefix.
func NewRepository(store Store, prefix string) *Repository {
	return &Repository{store: store, prefix: prefix}
}

// Ensure interfaces are met.
var _ domain.FastingRepository = (*Repository)(nil)
var _ domain.WeightRepository = (*Repository)(nil)
var _ domain.ProfileRepository = (*Repository)(nil)

// LoadFasting reads the open fast, the history and the plan.
func (r *Repository) LoadFasting(ctx context.Context) (domain.FastingLog, error) {
	var l domain.FastingLog

	var cur domain.FastingSession
	found, err := r.get(ctx, KeyCurrentFast, &cur)
	if err != nil {
		return domain.FastingLog{}, err
	}
	if found && cur.IsActive() {
		l.Current = &cur
	}
	if _, err := r.get(ctx, KeyFastingHistory, &l.History); err != nil {
		return domain.FastingLog{}, err
	}

	found, err = r.get(ctx, KeyFastingPlan, &l.Plan)
	if err != nil {
		return domain.FastingLog{}, err
	}
	if !found {
		l.Plan = domain.DefaultPlan()
	}
	return l, nil
}

// SaveFasting writes the history before the open fast. An interrupted save
// leaves an ended fast in both keys, never in neither.
func (r *Repository) SaveFasting(ctx context.Context, l domain.FastingLog) error {
	history := l.History
	if history == nil {
		history = []domain.FastingSession{}
	}
	if err := r.set(ctx, KeyFastingHistory, history); err != nil {
		return err
	}
	if err := r.set(ctx, KeyFastingPlan, l.Plan); err != nil {
		return err
	}
	if l.Current == nil {
		if err := r.store.Delete(ctx, r.key(KeyCurrentFast)); err != nil {
			return fmt.Errorf("delete %s: %w", KeyCurrentFast, err)
		}
		return nil
	}
	return r.set(ctx, KeyCurrentFast, l.Current)
}

// LoadWeights reads the weight history, most recent first.
func (r *Repository) LoadWeights(ctx context.Context) (domain.WeightLog, error) {
	var l domain.WeightLog
	if _, err := r.get(ctx, KeyWeightHistory, &l.Entries); err != nil {
		return domain.WeightLog{}, err
	}
	domain.SortWeightsDesc(l.Entries)
	return l, nil
}

// SaveWeights writes the weight history.
func (r *Repository) SaveWeights(ctx context.Context, l domain.WeightLog) error {
	entries := l.Entries
	if entries == nil {
		entries = []domain.WeightEntry{}
	}
	return r.set(ctx, KeyWeightHistory, entries)
}

// LoadProfile reads the profile or returns the default one.
func (r *Repository) LoadProfile(ctx context.Context) (domain.UserProfile, error) {
	p := domain.DefaultProfile()
	if _, err := r.get(ctx, KeyUserProfile, &p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// SaveProfile writes the profile.
func (r *Repository) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	return r.set(ctx, KeyUserProfile, p)
}

func (r *Repository) key(name string) string {
	return r.prefix + name
}

// get decodes the JSON at name into v. found is false for a missing key.
func (r *Repository) get(ctx context.Context, name string, v any) (found bool, err error) {
	raw, err := r.store.Get(ctx, r.key(name))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (r *Repository) set(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := r.store.Set(ctx, r.key(name), string(data)); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}
