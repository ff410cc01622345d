// Package domain contains the core business entities, ports and the pure
// computations over them.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MaxTargetHours caps a single fast at 30 days.
const MaxTargetHours = 720

var (
	// ErrInvalidDuration indicates a target duration outside (0, MaxTargetHours].
	ErrInvalidDuration = fmt.Errorf("target duration must be > 0 and <= %d hours", MaxTargetHours)
	// ErrSessionClosed indicates an attempt to end a session that already ended.
	ErrSessionClosed = errors.New("fasting session already ended")
)

// SessionState discriminates open sessions from completed ones. The only
// implementations are Open and Completed.
type SessionState interface {
	isSessionState()
}

// Open is the state of a fast that is still running.
type Open struct{}

// Completed is the state of a fast that has ended. It is terminal.
type Completed struct {
	EndTime time.Time
}

func (Open) isSessionState()      {}
func (Completed) isSessionState() {}

// FastingSession is a single fast. Values are immutable; Complete returns a
// new value instead of mutating the receiver.
type FastingSession struct {
	ID          string
	StartTime   time.Time
	TargetHours float64
	State       SessionState
}

// NewID returns an identifier derived from the creation time with a
// random suffix so that two records created in the same millisecond differ.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// NewSession creates an open session. The target is not validated here; see
// ValidateTargetHours.
func NewSession(id string, start time.Time, targetHours float64) FastingSession {
	return FastingSession{ID: id, StartTime: start, TargetHours: targetHours, State: Open{}}
}

// ValidateTargetHours rejects durations outside (0, MaxTargetHours].
func ValidateTargetHours(h float64) error {
	if !(h > 0) || h > MaxTargetHours {
		return ErrInvalidDuration
	}
	return nil
}

// EndTime returns the end instant of a completed session.
func (s FastingSession) EndTime() (time.Time, bool) {
	if c, ok := s.State.(Completed); ok {
		return c.EndTime, true
	}
	return time.Time{}, false
}

// IsActive reports whether the session is still open.
func (s FastingSession) IsActive() bool {
	_, ended := s.EndTime()
	return !ended
}

// Complete ends the session at end.
func (s FastingSession) Complete(end time.Time) (FastingSession, error) {
	if !s.IsActive() {
		return s, ErrSessionClosed
	}
	s.State = Completed{EndTime: end}
	return s, nil
}

// Target returns the target duration.
func (s FastingSession) Target() time.Duration {
	return hoursToDuration(s.TargetHours)
}

// Duration returns end - start for completed sessions.
func (s FastingSession) Duration() (time.Duration, bool) {
	end, ok := s.EndTime()
	if !ok {
		return 0, false
	}
	return end.Sub(s.StartTime), true
}

// MetTarget reports whether a completed session lasted at least its target.
// Open sessions never count.
func (s FastingSession) MetTarget() bool {
	d, ok := s.Duration()
	return ok && d >= s.Target()
}

// sessionRecord is the stored shape of a session. It matches the records the
// mobile app kept in device storage.
type sessionRecord struct {
	ID             string     `json:"id"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	TargetDuration float64    `json:"targetDuration"`
	IsActive       bool       `json:"isActive"`
}

// MarshalJSON implements json.Marshaler.
func (s FastingSession) MarshalJSON() ([]byte, error) {
	rec := sessionRecord{
		ID:             s.ID,
		StartTime:      s.StartTime,
		TargetDuration: s.TargetHours,
		IsActive:       true,
	}
	if end, ok := s.EndTime(); ok {
		rec.EndTime = &end
		rec.IsActive = false
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. The stored isActive flag is
// ignored; the state is derived from endTime alone.
func (s *FastingSession) UnmarshalJSON(b []byte) error {
	var rec sessionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	*s = NewSession(rec.ID, rec.StartTime, rec.TargetDuration)
	if rec.EndTime != nil {
		s.State = Completed{EndTime: *rec.EndTime}
	}
	return nil
}

// FastingPlan holds the target hours for each weekday.
type FastingPlan struct {
	Monday    float64 `json:"monday"`
	Tuesday   float64 `json:"tuesday"`
	Wednesday float64 `json:"wednesday"`
	Thursday  float64 `json:"thursday"`
	Friday    float64 `json:"friday"`
	Saturday  float64 `json:"saturday"`
	Sunday    float64 `json:"sunday"`
}

// DefaultPlan is 16 hours every day.
func DefaultPlan() FastingPlan {
	return FastingPlan{16, 16, 16, 16, 16, 16, 16}
}

// HoursFor returns the planned hours for the given weekday.
func (p FastingPlan) HoursFor(d time.Weekday) float64 {
	return *p.slot(d)
}

// With returns a copy of the plan with the weekday set to hours.
func (p FastingPlan) With(d time.Weekday, hours float64) FastingPlan {
	*p.slot(d) = hours
	return p
}

// Validate checks every weekday entry.
func (p FastingPlan) Validate() error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if err := ValidateTargetHours(p.HoursFor(d)); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

func (p *FastingPlan) slot(d time.Weekday) *float64 {
	switch d {
	case time.Monday:
		return &p.Monday
	case time.Tuesday:
		return &p.Tuesday
	case time.Wednesday:
		return &p.Wednesday
	case time.Thursday:
		return &p.Thursday
	case time.Friday:
		return &p.Friday
	case time.Saturday:
		return &p.Saturday
	default:
		return &p.Sunday
	}
}

// FastingLog is a snapshot of everything persisted about fasting.
type FastingLog struct {
	Current *FastingSession
	History []FastingSession
	Plan    FastingPlan
}

// Clone returns a deep copy so callers can modify the result freely.
func (l FastingLog) Clone() FastingLog {
	out := FastingLog{Plan: l.Plan}
	if l.Current != nil {
		c := *l.Current
		out.Current = &c
	}
	if l.History != nil {
		out.History = append([]FastingSession(nil), l.History...)
	}
	return out
}

// FastingRepository is the port for fasting persistence.
type FastingRepository interface {
	LoadFasting(ctx context.Context) (FastingLog, error)
	SaveFasting(ctx context.Context, log FastingLog) error
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
