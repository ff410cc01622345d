package domain_test

import (
	"strings"
	"testing"
	"time"

	"fasting/internal/domain"
)

func kinds(rs []domain.Reminder) []domain.ReminderKind {
	out := make([]domain.ReminderKind, len(rs))
	for i, r := range rs {
		out[i] = r.Kind
	}
	return out
}

func TestPlanReminders(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		now    time.Time
		want   []domain.ReminderKind
	}{
		{"sixteen hours", 16, t0, []domain.ReminderKind{domain.ReminderHalfway, domain.ReminderFatBurning, domain.ReminderGoal}},
		{"twelve hours has no fat burning", 12, t0, []domain.ReminderKind{domain.ReminderHalfway, domain.ReminderGoal}},
		{"long fast orders by time", 36, t0, []domain.ReminderKind{domain.ReminderFatBurning, domain.ReminderHalfway, domain.ReminderGoal}},
		{"past halfway", 16, t0.Add(9 * time.Hour), []domain.ReminderKind{domain.ReminderFatBurning, domain.ReminderGoal}},
		{"past target", 16, t0.Add(16 * time.Hour), []domain.ReminderKind{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := kinds(domain.PlanReminders(domain.NewSession("f1", t0, tc.target), tc.now))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v; want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v; want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPlanReminders_Details(t *testing.T) {
	rs := domain.PlanReminders(domain.NewSession("f1", t0, 16), t0)
	goal := rs[len(rs)-1]
	if !goal.At.Equal(t0.Add(16 * time.Hour)) {
		t.Errorf("goal at %v; want %v", goal.At, t0.Add(16*time.Hour))
	}
	if !strings.Contains(goal.Body, "16h fast") {
		t.Errorf("goal body %q should mention the target", goal.Body)
	}
	if goal.FastID != "f1" {
		t.Errorf("FastID = %q; want f1", goal.FastID)
	}
	if !rs[0].At.Equal(t0.Add(8 * time.Hour)) {
		t.Errorf("halfway at %v; want %v", rs[0].At, t0.Add(8*time.Hour))
	}
}

func TestPlanReminders_CompletedSession(t *testing.T) {
	done, _ := domain.NewSession("f1", t0, 16).Complete(t0.Add(time.Hour))
	if rs := domain.PlanReminders(done, t0); len(rs) != 0 {
		t.Errorf("expected no reminders for a completed fast, got %v", kinds(rs))
	}
}

func TestStatusNotification(t *testing.T) {
	s := domain.NewSession("f1", t0, 16)

	n := domain.StatusNotification(s, s.Clock(t0.Add(10*time.Hour)))
	if n.Title != "Fasting in Progress" || n.Body != "Time remaining: 06:00:00" {
		t.Errorf("in progress = %+v", n)
	}

	n = domain.StatusNotification(s, s.Clock(t0.Add(17*time.Hour+30*time.Second)))
	if n.Title != "Fasting Goal Exceeded!" || n.Body != "Extra time: 01:00:30" {
		t.Errorf("overtime = %+v", n)
	}
}
