package dto

import "time"

type RecordInput struct {
	SessionID     string
	IntakeID      string
	FlowKind      string
	Target        string
	StartedAt     time.Time
	EndedAt       time.Time
	LengthMinutes int
	Completed     bool
}

type ReflectInput struct {
	SessionID         string
	Summary           string
	DistractionsNoted string
	NextStep          string
	CompletionPercent *int
	XPAwarded         *int
}

type EntryOutput struct {
	SessionID         string
	IntakeID          string
	FlowKind          string
	Target            string
	Status            string
	StartedAt         time.Time
	EndedAt           time.Time
	LengthMinutes     int
	ActiveMinutes     int
	Completed         bool
	CompletionPercent *int
	XPAwarded         *int
	Reflected         bool
	Summary           string
	DistractionsNoted string
	NextStep          string
	ReflectedAt       time.Time
	AlignmentScore    *int
	InsightNotes      string
}

type RoleOutput struct {
	Key         string
	Label       string
	XP          int
	Description string
}

type ProgressOutput struct {
	TotalXP      int
	TotalMinutes int
	Sessions     int
	StreakDays   int
	Role         RoleOutput
	NextRole     *RoleOutput
	XPToNext     int
}

type ExportOutput struct {
	SessionID string
	NotePath  string
}
