package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fasting/internal/app"
	"fasting/internal/domain"

	"go.uber.org/zap/zaptest"
)

func TestArm_SchedulesFutureReminders(t *testing.T) {
	sched := newFakeScheduler()
	var got []domain.Notification
	notifier := &mockNotifier{notifyFn: func(_ context.Context, n domain.Notification) error {
		got = append(got, n)
		return nil
	}}
	svc := app.NewReminderService(sched, notifier, fixedClock(t0), zaptest.NewLogger(t))

	fast := domain.NewSession("f1", t0, 16)
	planned, err := svc.Arm(fast)
	if err != nil {
		t.Fatal(err)
	}
	if len(planned) != 3 || len(sched.jobs) != 3 {
		t.Fatalf("expected 3 reminders, got %d planned and %d jobs", len(planned), len(sched.jobs))
	}
	if svc.ArmedFor() != "f1" {
		t.Errorf("expected reminders armed for f1, got %q", svc.ArmedFor())
	}

	for _, j := range sched.jobs {
		if j.at.Equal(t0.Add(16 * time.Hour)) {
			j.run()
		}
	}
	if len(got) != 1 || got[0].Kind != domain.ReminderGoal {
		t.Fatalf("expected goal notification, got %+v", got)
	}
}

func TestArm_ReplacesPreviousFast(t *testing.T) {
	sched := newFakeScheduler()
	svc := app.NewReminderService(sched, &mockNotifier{}, fixedClock(t0), zaptest.NewLogger(t))

	if _, err := svc.Arm(domain.NewSession("f1", t0, 16)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Arm(domain.NewSession("f2", t0, 8)); err != nil {
		t.Fatal(err)
	}
	if len(sched.cancelled) != 3 {
		t.Errorf("expected the 3 reminders of f1 cancelled, got %v", sched.cancelled)
	}
	if len(sched.jobs) != 2 {
		t.Errorf("expected halfway and goal for an 8h fast, got %d jobs", len(sched.jobs))
	}
}

func TestArm_SchedulerError(t *testing.T) {
	sched := newFakeScheduler()
	sched.err = errors.New("stopped")
	svc := app.NewReminderService(sched, &mockNotifier{}, fixedClock(t0), zaptest.NewLogger(t))

	if _, err := svc.Arm(domain.NewSession("f1", t0, 16)); err == nil {
		t.Fatal("expected scheduler error")
	}
	if svc.ArmedFor() != "" {
		t.Error("nothing should be armed after a failure")
	}
}

func TestArm_SkipsRemindersAlreadyDue(t *testing.T) {
	sched := newFakeScheduler()
	sched.pastUntil = t0.Add(8 * time.Hour)
	svc := app.NewReminderService(sched, &mockNotifier{}, fixedClock(t0), zaptest.NewLogger(t))

	planned, err := svc.Arm(domain.NewSession("f1", t0, 16))
	if err != nil {
		t.Fatalf("a reminder falling due while arming should be skipped, got %v", err)
	}
	if len(planned) != 2 || len(sched.jobs) != 2 {
		t.Fatalf("expected fat burning and goal, got %d planned and %d jobs", len(planned), len(sched.jobs))
	}
	for _, r := range planned {
		if r.Kind == domain.ReminderHalfway {
			t.Errorf("halfway reminder should have been skipped")
		}
	}
	if svc.ArmedFor() != "f1" {
		t.Errorf("expected reminders armed for f1, got %q", svc.ArmedFor())
	}
}

func TestSync(t *testing.T) {
	sched := newFakeScheduler()
	svc := app.NewReminderService(sched, &mockNotifier{}, fixedClock(t0), zaptest.NewLogger(t))

	fast := domain.NewSession("f1", t0, 16)
	if err := svc.Sync(&fast); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sync(&fast); err != nil {
		t.Fatal(err)
	}
	if sched.next != 3 {
		t.Errorf("syncing the same fast twice must not reschedule, scheduled %d", sched.next)
	}

	if err := svc.Sync(nil); err != nil {
		t.Fatal(err)
	}
	if len(sched.jobs) != 0 || svc.ArmedFor() != "" {
		t.Errorf("expected everything disarmed, %d jobs left", len(sched.jobs))
	}

	done, _ := fast.Complete(t0.Add(time.Hour))
	if err := svc.Sync(&done); err != nil {
		t.Fatal(err)
	}
	if len(sched.jobs) != 0 {
		t.Error("completed fasts get no reminders")
	}
}

func TestPublishStatus(t *testing.T) {
	var got domain.Notification
	notifier := &mockNotifier{notifyFn: func(_ context.Context, n domain.Notification) error {
		got = n
		return nil
	}}
	now := t0.Add(10 * time.Hour)
	svc := app.NewReminderService(newFakeScheduler(), notifier, fixedClock(now), zaptest.NewLogger(t))

	n, err := svc.PublishStatus(context.Background(), domain.NewSession("f1", t0, 16))
	if err != nil {
		t.Fatal(err)
	}
	if got != n || n.Body != "Time remaining: 06:00:00" {
		t.Errorf("unexpected notification %+v", n)
	}

	notifier.notifyFn = func(context.Context, domain.Notification) error { return errors.New("down") }
	if _, err := svc.PublishStatus(context.Background(), domain.NewSession("f1", t0, 16)); err == nil {
		t.Error("expected notifier error")
	}
}
