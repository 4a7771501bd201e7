package domain

import "time"

const (
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

type Reflection struct {
	Summary           string    `json:"summary"`
	DistractionsNoted string    `json:"distractionsNoted,omitempty"`
	NextStep          string    `json:"nextStep,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Insights struct {
	AlignmentScore *int   `json:"alignmentScore,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Entry is one finished session in the completion log, keyed by SessionID.
type Entry struct {
	SessionID         string
	IntakeID          string
	FlowKind          string
	Target            string
	StartedAt         time.Time
	EndedAt           time.Time
	LengthMinutes     int
	Completed         bool
	CompletionPercent *int
	XPAwarded         *int
	Reflection        *Reflection
	Insights          *Insights
}

func (e Entry) Status() string {
	if e.Completed {
		return StatusCompleted
	}
	return StatusAbandoned
}

// ActiveMinutes is the focused time between start and end, rounded down.
func (e Entry) ActiveMinutes() int {
	d := e.EndedAt.Sub(e.StartedAt)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// MergedOnto returns e with the after-the-fact fields of existing carried
// over, so re-recording a session never drops its reflection.
func (e Entry) MergedOnto(existing Entry) Entry {
	out := e
	if out.Reflection == nil {
		out.Reflection = existing.Reflection
	}
	if out.Insights == nil {
		out.Insights = existing.Insights
	}
	if out.CompletionPercent == nil {
		out.CompletionPercent = existing.CompletionPercent
	}
	if out.XPAwarded == nil {
		out.XPAwarded = existing.XPAwarded
	}
	return out
}

// Reflected attaches a reflection and its derived fields. Timing fields are
// left untouched.
func (e Entry) Reflected(reflection Reflection, completionPercent, xpAwarded, alignment *int) Entry {
	out := e
	out.Reflection = &reflection
	if completionPercent != nil {
		out.CompletionPercent = completionPercent
	}
	if xpAwarded != nil {
		out.XPAwarded = xpAwarded
	}
	insights := Insights{AlignmentScore: alignment}
	if alignment != nil {
		insights.Notes = AlignmentNote(*alignment)
	}
	out.Insights = &insights
	return out
}
