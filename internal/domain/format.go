package domain

import (
	"fmt"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Parts is a duration split into calendar-free units.
type Parts struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// TotalSeconds reassembles the parts.
func (p Parts) TotalSeconds() int64 {
	return p.Days*86400 + p.Hours*3600 + p.Minutes*60 + p.Seconds
}

// Decompose splits |d|, truncated to whole milliseconds, into days, hours,
// minutes and seconds.
func Decompose(d time.Duration) Parts {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	var p Parts
	p.Days = ms / msPerDay
	ms %= msPerDay
	p.Hours = ms / msPerHour
	ms %= msPerHour
	p.Minutes = ms / msPerMinute
	ms %= msPerMinute
	p.Seconds = ms / msPerSecond
	return p
}

// FormatOptions controls FormatDuration.
type FormatOptions struct {
	// ShowDays renders a leading "Nd " once the duration reaches a day.
	// Without it days are folded into the hour count.
	ShowDays bool
	// Overtime prefixes the result with "+". A negative duration is treated
	// the same way.
	Overtime bool
}

// FormatDuration renders d as "HH:MM:SS" or "Nd HH:MM:SS".
func FormatDuration(d time.Duration, opts FormatOptions) string {
	p := Decompose(d)
	sign := ""
	if opts.Overtime || d < 0 {
		sign = "+"
	}
	if opts.ShowDays && p.Days > 0 {
		return fmt.Sprintf("%s%dd %02d:%02d:%02d", sign, p.Days, p.Hours, p.Minutes, p.Seconds)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, p.Days*24+p.Hours, p.Minutes, p.Seconds)
}

// FormatClock renders the remaining time, or the overtime with a "+" prefix
// once the target is met.
func FormatClock(c SessionClock) string {
	if c.IsOvertime() {
		return FormatDuration(c.Overtime, FormatOptions{ShowDays: true, Overtime: true})
	}
	return FormatDuration(c.Remaining, FormatOptions{ShowDays: true})
}

// FormatHoursMinutes renders d as "Nh Mm".
func FormatHoursMinutes(d time.Duration) string {
	p := Decompose(d)
	return fmt.Sprintf("%dh %dm", p.Days*24+p.Hours, p.Minutes)
}
