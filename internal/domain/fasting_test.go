package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"fasting/internal/domain"
)

func TestValidateTargetHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   float64
		wantErr bool
	}{
		{"typical", 16, false},
		{"fractional", 0.5, false},
		{"cap", domain.MaxTargetHours, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"over cap", domain.MaxTargetHours + 0.5, true},
		{"NaN", math.NaN(), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateTargetHours(tc.hours)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateTargetHours(%v) = %v; wantErr %v", tc.hours, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidDuration) {
				t.Errorf("expected ErrInvalidDuration, got %v", err)
			}
		})
	}
}

func TestFastingSession_Lifecycle(t *testing.T) {
	s := domain.NewSession("1", t0, 16)
	if !s.IsActive() {
		t.Fatal("new session should be active")
	}
	if _, ok := s.Duration(); ok {
		t.Fatal("open session should have no duration")
	}

	end := t0.Add(17 * time.Hour)
	done, err := s.Complete(end)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.IsActive() {
		t.Fatal("completed session should not be active")
	}
	if got, _ := done.EndTime(); !got.Equal(end) {
		t.Errorf("EndTime = %v; want %v", got, end)
	}
	if !done.MetTarget() {
		t.Error("17h of a 16h target should meet it")
	}
	if !s.IsActive() {
		t.Error("Complete must not mutate the receiver")
	}

	if _, err := done.Complete(end.Add(time.Hour)); !errors.Is(err, domain.ErrSessionClosed) {
		t.Errorf("second Complete = %v; want ErrSessionClosed", err)
	}
}

func TestFastingSession_JSON(t *testing.T) {
	done, _ := domain.NewSession("42", t0, 16).Complete(t0.Add(16 * time.Hour))
	b, err := json.Marshal(done)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"isActive":false`) || !strings.Contains(string(b), `"endTime"`) {
		t.Errorf("unexpected record: %s", b)
	}

	open, _ := json.Marshal(domain.NewSession("43", t0, 16))
	if strings.Contains(string(open), "endTime") || !strings.Contains(string(open), `"isActive":true`) {
		t.Errorf("unexpected open record: %s", open)
	}
}

func TestFastingSession_UnmarshalDerivesState(t *testing.T) {
	// A record whose flag disagrees with its end time.
	raw := `{"id":"7","startTime":"2026-03-01T20:00:00Z","endTime":"2026-03-02T12:00:00Z","targetDuration":16,"isActive":true}`
	var s domain.FastingSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.IsActive() {
		t.Error("session with endTime must not be active")
	}
	if d, _ := s.Duration(); d != 16*time.Hour {
		t.Errorf("Duration = %v; want 16h", d)
	}
}

func TestNewID(t *testing.T) {
	a := domain.NewID(t0)
	b := domain.NewID(t0)
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if !strings.HasPrefix(a, "1772395200000-") {
		t.Errorf("id %q does not start with the creation time", a)
	}
}

func TestFastingPlan(t *testing.T) {
	p := domain.DefaultPlan()
	for d := time.Sunday; d <= time.Saturday; d++ {
		if p.HoursFor(d) != 16 {
			t.Errorf("default %s = %v; want 16", d, p.HoursFor(d))
		}
	}

	p2 := p.With(time.Friday, 20)
	if p2.HoursFor(time.Friday) != 20 || p.HoursFor(time.Friday) != 16 {
		t.Errorf("With should copy: got %v / %v", p2.HoursFor(time.Friday), p.HoursFor(time.Friday))
	}
	if err := p2.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := p2.With(time.Sunday, 0).Validate(); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Errorf("Validate = %v; want ErrInvalidDuration", err)
	}
}
