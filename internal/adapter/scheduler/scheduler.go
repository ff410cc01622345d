// Package scheduler runs reminder and refresh jobs on robfig/cron.
package scheduler

import (
	"sync"
	"time"

	"fasting/internal/app"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrInPast is returned when a one-shot job is scheduled for an instant that
// has already passed.
var ErrInPast = app.ErrPastDue

// once fires a single time at at.
type once struct {
	at time.Time
}

// Next implements cron.Schedule.
func (o once) Next(t time.Time) time.Time {
	if t.Before(o.at) {
		return o.at
	}
	return time.Time{}
}

// Scheduler implements app.Scheduler on a cron runner.
type Scheduler struct {
	cron *cron.Cron
	now  func() time.Time
	log  *zap.Logger

	mu sync.Mutex
}

var _ app.Scheduler = (*Scheduler)(nil)

// New creates a Scheduler. Call Start to begin running jobs.
func New(log *zap.Logger) *Scheduler {
	cl := cronLogger{s: log.Sugar()}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		now:  time.Now,
		log:  log,
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Debug("scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Debug("scheduler stopped")
}

// ScheduleAt runs job once at at. The entry removes itself after firing.
func (s *Scheduler) ScheduleAt(at time.Time, job func()) (app.JobID, error) {
	if !at.After(s.now()) {
		return 0, ErrInPast
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id cron.EntryID
	id = s.cron.Schedule(once{at: at}, cron.FuncJob(func() {
		job()
		s.mu.Lock()
		self := id
		s.mu.Unlock()
		s.cron.Remove(self)
	}))
	return app.JobID(id), nil
}

// Every runs job repeatedly with the given delay, rounded to whole seconds.
func (s *Scheduler) Every(interval time.Duration, job func()) app.JobID {
	return app.JobID(s.cron.Schedule(cron.Every(interval), cron.FuncJob(job)))
}

// Cancel removes a pending job. Cancelling an unknown job is a no-op.
func (s *Scheduler) Cancel(id app.JobID) {
	s.cron.Remove(cron.EntryID(id))
}

// Pending returns the number of scheduled jobs.
func (s *Scheduler) Pending() int {
	return len(s.cron.Entries())
}

// cronLogger adapts zap to cron.Logger. Cron's routine chatter goes to debug.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
