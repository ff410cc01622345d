package domain

import "time"

// Clock is the time source. Services take a Clock instead of calling
// time.Now so that tests are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SessionClock is the state of a fast at one instant.
type SessionClock struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Overtime  time.Duration
	Target    time.Duration
	// Progress is Elapsed/Target clamped to [0, 1].
	Progress float64
}

// ComputeClock derives the clock of a fast that started at start with the
// given target, sampled at now. Elapsed is returned unclamped and is negative
// when now precedes start.
func ComputeClock(start time.Time, targetHours float64, now time.Time) SessionClock {
	elapsed := now.Sub(start)
	target := hoursToDuration(targetHours)

	c := SessionClock{
		Elapsed: elapsed,
		Target:  target,
	}
	if target-elapsed > 0 {
		c.Remaining = target - elapsed
	}
	if elapsed-target > 0 {
		c.Overtime = elapsed - target
	}
	if target > 0 {
		c.Progress = min(max(float64(elapsed)/float64(target), 0), 1)
	}
	return c
}

// IsOvertime reports whether the target has been met.
func (c SessionClock) IsOvertime() bool {
	return c.Remaining == 0 && c.Target > 0
}

// Clock returns the session's clock at now.
func (s FastingSession) Clock(now time.Time) SessionClock {
	return ComputeClock(s.StartTime, s.TargetHours, now)
}

// TargetEnd returns the instant a fast started at start reaches its target.
func TargetEnd(start time.Time, targetHours float64) time.Time {
	return start.Add(hoursToDuration(targetHours))
}
