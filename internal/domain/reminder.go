package domain

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ReminderKind identifies a scheduled notification.
type ReminderKind string

// Reminder kinds.
const (
	ReminderGoal       ReminderKind = "fast_completed"
	ReminderHalfway    ReminderKind = "motivation"
	ReminderFatBurning ReminderKind = "fat_burning"
	ReminderStatus     ReminderKind = "status"
)

// FatBurningAfter is when the fat-burning reminder fires.
const FatBurningAfter = 12 * time.Hour

// Notification is a message for the user.
type Notification struct {
	Kind   ReminderKind `json:"kind"`
	FastID string       `json:"fastId"`
	Title  string       `json:"title"`
	Body   string       `json:"body"`
}

// Reminder is a notification due at an absolute instant.
type Reminder struct {
	At time.Time
	Notification
}

// Notifier delivers notifications. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// PlanReminders returns the reminders for s that are still in the future at
// now, in firing order.
func PlanReminders(s FastingSession, now time.Time) []Reminder {
	if !s.IsActive() {
		return nil
	}
	target := s.Target()
	var out []Reminder

	if half := s.StartTime.Add(target / 2); half.After(now) {
		out = append(out, Reminder{At: half, Notification: Notification{
			Kind:   ReminderHalfway,
			FastID: s.ID,
			Title:  "Halfway There!",
			Body:   "You're doing great! Keep up the momentum.",
		}})
	}
	if fat := s.StartTime.Add(FatBurningAfter); fat.After(now) && target > FatBurningAfter {
		out = append(out, Reminder{At: fat, Notification: Notification{
			Kind:   ReminderFatBurning,
			FastID: s.ID,
			Title:  "Fat Burning Mode Activated!",
			Body:   "Your body has entered ketosis and is burning fat for energy.",
		}})
	}
	if goal := s.StartTime.Add(target); goal.After(now) {
		out = append(out, Reminder{At: goal, Notification: Notification{
			Kind:   ReminderGoal,
			FastID: s.ID,
			Title:  "Fasting Goal Achieved!",
			Body:   fmt.Sprintf("Congratulations! You've completed your %sh fast.", formatHours(s.TargetHours)),
		}})
	}

	// halfway falls after the 12h mark for fasts over a day
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// StatusNotification is the continuously refreshed progress message.
func StatusNotification(s FastingSession, c SessionClock) Notification {
	n := Notification{Kind: ReminderStatus, FastID: s.ID}
	if c.IsOvertime() {
		n.Title = "Fasting Goal Exceeded!"
		n.Body = "Extra time: " + FormatDuration(c.Overtime, FormatOptions{ShowDays: true})
		return n
	}
	n.Title = "Fasting in Progress"
	n.Body = "Time remaining: " + FormatDuration(c.Remaining, FormatOptions{ShowDays: true})
	return n
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
