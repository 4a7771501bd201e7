package dto

import "time"

type StartInput struct {
	Target        string
	LengthMinutes int
	IntakeID      string
	FlowKind      string
}

// SessionOutput is the observer-facing snapshot of the slot at one instant.
type SessionOutput struct {
	Active           bool
	Changed          bool
	Finished         bool
	SessionID        string
	Target           string
	LengthMinutes    int
	Paused           bool
	RemainingSeconds int
	Progress         float64
	State            string
	IntakeID         string
	FlowKind         string
	StartedAt        time.Time
	ObservedAt       time.Time
}

type EndOutput struct {
	Ended     bool
	Logged    bool
	SessionID string
}
