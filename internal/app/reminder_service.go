package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fasting/internal/domain"

	"go.uber.org/zap"
)

// JobID identifies a scheduled job.
type JobID int

// ErrPastDue is returned by a Scheduler asked to run a job at an instant that
// has already passed.
var ErrPastDue = errors.New("scheduled time is in the past")

// Scheduler runs a job once at an absolute instant.
type Scheduler interface {
	ScheduleAt(at time.Time, job func()) (JobID, error)
	Cancel(id JobID)
}

// ReminderService keeps the scheduled reminders in step with the open fast.
// Reminders for a fast are armed when it starts and cancelled when it ends.
type ReminderService struct {
	sched    Scheduler
	notifier domain.Notifier
	clock    domain.Clock
	log      *zap.Logger

	mu     sync.Mutex
	fastID string
	jobs   []JobID
}

// NewReminderService creates a ReminderService.
func NewReminderService(sched Scheduler, notifier domain.Notifier, clock domain.Clock, log *zap.Logger) *ReminderService {
	return &ReminderService{sched: sched, notifier: notifier, clock: clock, log: log}
}

// Arm cancels any pending reminders and schedules those still due for fast.
// It returns the reminders that were scheduled. A reminder that falls due
// before the scheduler accepts it is skipped.
func (s *ReminderService) Arm(fast domain.FastingSession) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()

	var armed []domain.Reminder
	for _, r := range domain.PlanReminders(fast, s.clock.Now()) {
		n := r.Notification
		id, err := s.sched.ScheduleAt(r.At, func() { s.deliver(context.Background(), n) })
		if errors.Is(err, ErrPastDue) {
			s.log.Debug("reminder already due", zap.String("kind", string(r.Kind)), zap.String("fast_id", fast.ID))
			continue
		}
		if err != nil {
			s.disarmLocked()
			return nil, fmt.Errorf("schedule %s reminder: %w", r.Kind, err)
		}
		s.jobs = append(s.jobs, id)
		armed = append(armed, r)
	}
	if fast.IsActive() {
		s.fastID = fast.ID
	}
	s.log.Debug("reminders armed", zap.String("fast_id", fast.ID), zap.Int("count", len(armed)))
	return armed, nil
}

// Disarm cancels every pending reminder.
func (s *ReminderService) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// Sync arms reminders for current when it is a fast not yet armed, and
// disarms them when no fast is open.
func (s *ReminderService) Sync(current *domain.FastingSession) error {
	if current == nil || !current.IsActive() {
		s.Disarm()
		return nil
	}
	if s.ArmedFor() == current.ID {
		return nil
	}
	_, err := s.Arm(*current)
	return err
}

// ArmedFor returns the id of the fast whose reminders are pending, or "".
func (s *ReminderService) ArmedFor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fastID
}

// PublishStatus sends the progress notification for an open fast.
func (s *ReminderService) PublishStatus(ctx context.Context, fast domain.FastingSession) (domain.Notification, error) {
	n := domain.StatusNotification(fast, fast.Clock(s.clock.Now()))
	if err := s.notifier.Notify(ctx, n); err != nil {
		return n, fmt.Errorf("publish status: %w", err)
	}
	return n, nil
}

func (s *ReminderService) deliver(ctx context.Context, n domain.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("reminder delivery failed", zap.String("kind", string(n.Kind)), zap.String("fast_id", n.FastID), zap.Error(err))
		return
	}
	s.log.Info("reminder delivered", zap.String("kind", string(n.Kind)), zap.String("fast_id", n.FastID))
}

func (s *ReminderService) disarmLocked() {
	for _, id := range s.jobs {
		s.sched.Cancel(id)
	}
	s.jobs = nil
	s.fastID = ""
}
