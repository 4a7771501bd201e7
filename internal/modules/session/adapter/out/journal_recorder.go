package out

import (
	"context"
	"time"

	journaldto "lockin/internal/modules/journal/dto"
	journalin "lockin/internal/modules/journal/port/in"
	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
)

// JournalRecorder hands terminal outcomes to the journal module.
type JournalRecorder struct {
	journal journalin.Usecase
}

func NewJournalRecorder(journal journalin.Usecase) sessionout.CompletionRecorder {
	return JournalRecorder{journal: journal}
}

// RecordOutcome logs the focused interval. The start is the end minus the
// time actually spent focusing, so pauses do not count.
func (r JournalRecorder) RecordOutcome(ctx context.Context, outcome domain.Outcome) error {
	s := outcome.Session
	elapsed := time.Duration(domain.Elapsed(s, outcome.EndedAt)) * time.Second
	_, err := r.journal.Record(ctx, journaldto.RecordInput{
		SessionID:     s.SessionID,
		IntakeID:      s.IntakeID,
		FlowKind:      s.FlowKind,
		Target:        s.Target,
		StartedAt:     outcome.EndedAt.Add(-elapsed),
		EndedAt:       outcome.EndedAt,
		LengthMinutes: s.LengthMinutes,
		Completed:     outcome.Completed,
	})
	return err
}
