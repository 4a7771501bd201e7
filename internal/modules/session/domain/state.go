package domain

import "time"

// State is where a session sits in the completion state machine.
type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StatePausedHold State = "pausedHold"
	StateFinished   State = "finished"
)

// StateAt classifies s at now. A nil session is idle.
func StateAt(s *Session, now time.Time) State {
	switch {
	case s == nil:
		return StateIdle
	case s.Paused:
		return StatePausedHold
	case Remaining(*s, now) == 0:
		return StateFinished
	default:
		return StateRunning
	}
}

// Outcome is what a terminal transition reports to the completion log.
type Outcome struct {
	Session   Session
	EndedAt   time.Time
	Completed bool
}
