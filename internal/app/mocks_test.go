package app_test

import (
	"context"
	"time"

	"fasting/internal/app"
	"fasting/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

type mockFastingRepo struct {
	loadFn func(ctx context.Context) (domain.FastingLog, error)
	saveFn func(ctx context.Context, l domain.FastingLog) error
}

func (m *mockFastingRepo) LoadFasting(ctx context.Context) (domain.FastingLog, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.FastingLog{}, nil
}

func (m *mockFastingRepo) SaveFasting(ctx context.Context, l domain.FastingLog) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, l)
	}
	return nil
}

// fastingStore returns a repo that keeps the last saved snapshot in *state.
func fastingStore(state *domain.FastingLog) *mockFastingRepo {
	return &mockFastingRepo{
		loadFn: func(context.Context) (domain.FastingLog, error) { return state.Clone(), nil },
		saveFn: func(_ context.Context, l domain.FastingLog) error {
			*state = l.Clone()
			return nil
		},
	}
}

type mockWeightRepo struct {
	loadFn func(ctx context.Context) (domain.WeightLog, error)
	saveFn func(ctx context.Context, l domain.WeightLog) error
}

func (m *mockWeightRepo) LoadWeights(ctx context.Context) (domain.WeightLog, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.WeightLog{}, nil
}

func (m *mockWeightRepo) SaveWeights(ctx context.Context, l domain.WeightLog) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, l)
	}
	return nil
}

func weightStore(state *domain.WeightLog) *mockWeightRepo {
	return &mockWeightRepo{
		loadFn: func(context.Context) (domain.WeightLog, error) { return state.Clone(), nil },
		saveFn: func(_ context.Context, l domain.WeightLog) error {
			*state = l.Clone()
			return nil
		},
	}
}

type mockProfileRepo struct {
	loadFn func(ctx context.Context) (domain.UserProfile, error)
	saveFn func(ctx context.Context, p domain.UserProfile) error
}

func (m *mockProfileRepo) LoadProfile(ctx context.Context) (domain.UserProfile, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.DefaultProfile(), nil
}

func (m *mockProfileRepo) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, p)
	}
	return nil
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, n domain.Notification) error
}

func (m *mockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if m.notifyFn != nil {
		return m.notifyFn(ctx, n)
	}
	return nil
}

// fakeScheduler records jobs and runs them on demand.
type fakeScheduler struct {
	next      app.JobID
	jobs      map[app.JobID]scheduledJob
	cancelled []app.JobID
	err       error
	// jobs at or before pastUntil are rejected as past due.
	pastUntil time.Time
}

type scheduledJob struct {
	at  time.Time
	run func()
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: map[app.JobID]scheduledJob{}}
}

func (f *fakeScheduler) ScheduleAt(at time.Time, job func()) (app.JobID, error) {
	if f.err != nil {
		return 0, f.err
	}
	if !at.After(f.pastUntil) {
		return 0, app.ErrPastDue
	}
	f.next++
	f.jobs[f.next] = scheduledJob{at: at, run: job}
	return f.next, nil
}

func (f *fakeScheduler) Cancel(id app.JobID) {
	delete(f.jobs, id)
	f.cancelled = append(f.cancelled, id)
}

func fixedClock(t time.Time) domain.Clock {
	return domain.ClockFunc(func() time.Time { return t })
}

// movableClock returns a clock reading *now on every call.
func movableClock(now *time.Time) domain.Clock {
	return domain.ClockFunc(func() time.Time { return *now })
}
