package scheduler

import (
	"errors"
	"testing"
	"time"

	"fasting/internal/app"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestOnceNext(t *testing.T) {
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	o := once{at: at}

	if got := o.Next(at.Add(-time.Hour)); !got.Equal(at) {
		t.Errorf("before: got %v, want %v", got, at)
	}
	if got := o.Next(at); !got.IsZero() {
		t.Errorf("at: got %v, want zero", got)
	}
	if got := o.Next(at.Add(time.Second)); !got.IsZero() {
		t.Errorf("after: got %v, want zero", got)
	}
}

func TestScheduleAt_InPast(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	if _, err := s.ScheduleAt(time.Now().Add(-time.Second), func() {}); !errors.Is(err, app.ErrPastDue) {
		t.Fatalf("expected ErrPastDue, got %v", err)
	}
}

func TestScheduleAt_FiresOnceAndRemovesItself(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 2)
	if _, err := s.ScheduleAt(time.Now().Add(50*time.Millisecond), func() { fired <- struct{}{} }); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the entry to remove itself, %d pending", s.Pending())
		}
		time.Sleep(10 * time.Millisecond)
	}
	select {
	case <-fired:
		t.Fatal("job fired twice")
	default:
	}
}

func TestCancel(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	id, err := s.ScheduleAt(time.Now().Add(200*time.Millisecond), func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	s.Cancel(id)

	select {
	case <-fired:
		t.Fatal("cancelled job fired")
	case <-time.After(500 * time.Millisecond):
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending jobs, got %d", s.Pending())
	}
}

func TestRecoverLogsPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := New(zap.New(core))
	s.Start()
	defer s.Stop()

	if _, err := s.ScheduleAt(time.Now().Add(20*time.Millisecond), func() { panic("boom") }); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for logs.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the panic to be logged")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartStopQuietAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(zap.New(core))
	s.Start()
	s.Stop()

	if logs.Len() != 0 {
		t.Errorf("expected no info logs for a scheduler lifecycle, got %v", logs.All())
	}
}
