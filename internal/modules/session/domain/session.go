package domain

import "time"

// MaxLengthMinutes bounds a single session to twelve hours.
const MaxLengthMinutes = 720

// Session is the single active focus interval. The JSON shape is the stored
// slot format and must stay stable across releases.
type Session struct {
	SessionID string `json:"sessionId"`
	Target    string `json:"target"`
	// StartEpoch is when the currently running interval began, in Unix
	// milliseconds. Resume moves it so that elapsed time is preserved.
	StartEpoch              int64  `json:"startEpoch"`
	LengthMinutes           int    `json:"lengthMinutes"`
	Paused                  bool   `json:"paused"`
	RemainingSecondsAtPause *int   `json:"remainingSecondsAtPause,omitempty"`
	IntakeID                string `json:"intakeId,omitempty"`
	FlowKind                string `json:"flowKind,omitempty"`
}

// Draft carries what a caller supplies to start a session.
type Draft struct {
	Target        string
	LengthMinutes int
	IntakeID      string
	FlowKind      string
}

// New builds a running session that starts at now.
func New(sessionID string, draft Draft, now time.Time) Session {
	length := draft.LengthMinutes
	if length < 1 {
		length = 1
	}
	if length > MaxLengthMinutes {
		length = MaxLengthMinutes
	}
	return Session{
		SessionID:     sessionID,
		Target:        draft.Target,
		StartEpoch:    now.UnixMilli(),
		LengthMinutes: length,
		IntakeID:      draft.IntakeID,
		FlowKind:      draft.FlowKind,
	}
}

func (s Session) TotalSeconds() int {
	return s.LengthMinutes * 60
}

// StartedAt is the start of the current running interval, not the original start.
func (s Session) StartedAt() time.Time {
	return time.UnixMilli(s.StartEpoch).UTC()
}

// Remaining returns the whole seconds left at now. A paused session reports
// its frozen snapshot; a running one is derived from the wall clock and never
// goes below zero or above the planned length.
func Remaining(s Session, now time.Time) int {
	if s.Paused {
		if s.RemainingSecondsAtPause == nil {
			return 0
		}
		return clamp(*s.RemainingSecondsAtPause, 0, s.TotalSeconds())
	}
	left := int64(s.TotalSeconds())*1000 - (now.UnixMilli() - s.StartEpoch)
	if left <= 0 {
		return 0
	}
	return clamp(int(left/1000), 0, s.TotalSeconds())
}

// Elapsed is the planned length minus what remains, in whole seconds.
func Elapsed(s Session, now time.Time) int {
	return s.TotalSeconds() - Remaining(s, now)
}

// Progress is the completed fraction in [0, 1].
func Progress(s Session, now time.Time) float64 {
	total := s.TotalSeconds()
	if total == 0 {
		return 0
	}
	return float64(Elapsed(s, now)) / float64(total)
}

// Paused freezes the remaining time at now. StartEpoch is left as is; it is
// not read again until Resumed recomputes it.
func Paused(s Session, now time.Time) Session {
	if s.Paused {
		return s
	}
	remaining := Remaining(s, now)
	out := s
	out.Paused = true
	out.RemainingSecondsAtPause = &remaining
	return out
}

// Resumed moves StartEpoch back by the time already spent so that Remaining
// keeps using the running formula.
func Resumed(s Session, now time.Time) Session {
	if !s.Paused {
		return s
	}
	remaining := 0
	if s.RemainingSecondsAtPause != nil {
		remaining = clamp(*s.RemainingSecondsAtPause, 0, s.TotalSeconds())
	}
	elapsed := s.TotalSeconds() - remaining
	out := s
	out.Paused = false
	out.RemainingSecondsAtPause = nil
	out.StartEpoch = now.UnixMilli() - int64(elapsed)*1000
	return out
}

// Valid reports whether a decoded record can be used as a session at all.
func (s Session) Valid() bool {
	return s.SessionID != "" && s.LengthMinutes > 0 && s.LengthMinutes <= MaxLengthMinutes
}

// Normalized drops a pause snapshot left on a running record and fills a
// missing one on a paused record.
func (s Session) Normalized() Session {
	out := s
	if !out.Paused {
		out.RemainingSecondsAtPause = nil
		return out
	}
	if out.RemainingSecondsAtPause == nil {
		zero := 0
		out.RemainingSecondsAtPause = &zero
	}
	return out
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	out := s
	if s.RemainingSecondsAtPause != nil {
		v := *s.RemainingSecondsAtPause
		out.RemainingSecondsAtPause = &v
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo || hi < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
