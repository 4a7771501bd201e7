package usecase

import (
	"context"
	"time"

	"lockin/internal/modules/journal/domain"
	"lockin/internal/modules/journal/dto"
	journalin "lockin/internal/modules/journal/port/in"
	journalout "lockin/internal/modules/journal/port/out"
	"lockin/internal/modules/journal/service"
)

type Interactor struct {
	svc     *service.JournalService
	intents journalout.IntentSource
}

func NewInteractor(svc *service.JournalService, intents journalout.IntentSource) journalin.Usecase {
	return &Interactor{svc: svc, intents: intents}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.EntryOutput, error) {
	entry, err := i.svc.Record(ctx, domain.Entry{
		SessionID:     input.SessionID,
		IntakeID:      input.IntakeID,
		FlowKind:      input.FlowKind,
		Target:        input.Target,
		StartedAt:     input.StartedAt.UTC(),
		EndedAt:       input.EndedAt.UTC(),
		LengthMinutes: input.LengthMinutes,
		Completed:     input.Completed,
	})
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) Get(ctx context.Context, sessionID string) (dto.EntryOutput, error) {
	entry, err := i.svc.Get(ctx, sessionID)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) List(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	entries, err := i.svc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry))
	}
	return out, nil
}

// AttachReflection scores the summary against the intake intent when the
// session came from an intake. A missing intake only drops the score.
func (i *Interactor) AttachReflection(ctx context.Context, input dto.ReflectInput) (dto.EntryOutput, error) {
	entry, err := i.svc.Get(ctx, input.SessionID)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	intent := ""
	if i.intents != nil && entry.IntakeID != "" {
		if resolved, err := i.intents.Intent(ctx, entry.IntakeID); err == nil {
			intent = resolved
		}
	}
	reflection := domain.Reflection{
		Summary:           input.Summary,
		DistractionsNoted: input.DistractionsNoted,
		NextStep:          input.NextStep,
	}
	updated, err := i.svc.Reflect(ctx, input.SessionID, reflection, input.CompletionPercent, input.XPAwarded, intent)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toOutput(updated), nil
}

func (i *Interactor) Progress(ctx context.Context, now time.Time) (dto.ProgressOutput, error) {
	p, err := i.svc.Progress(ctx, now)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	out := dto.ProgressOutput{
		TotalXP:      p.TotalXP,
		TotalMinutes: p.TotalMinutes,
		Sessions:     p.Sessions,
		StreakDays:   p.StreakDays,
		Role:         toRole(p.Current),
		XPToNext:     p.XPToNext,
	}
	if p.Next != nil {
		next := toRole(*p.Next)
		out.NextRole = &next
	}
	return out, nil
}

func (i *Interactor) ExportNote(ctx context.Context, sessionID string) (dto.ExportOutput, error) {
	path, err := i.svc.Export(ctx, sessionID)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{SessionID: sessionID, NotePath: path}, nil
}

func toOutput(entry domain.Entry) dto.EntryOutput {
	out := dto.EntryOutput{
		SessionID:         entry.SessionID,
		IntakeID:          entry.IntakeID,
		FlowKind:          entry.FlowKind,
		Target:            entry.Target,
		Status:            entry.Status(),
		StartedAt:         entry.StartedAt,
		EndedAt:           entry.EndedAt,
		LengthMinutes:     entry.LengthMinutes,
		ActiveMinutes:     entry.ActiveMinutes(),
		Completed:         entry.Completed,
		CompletionPercent: entry.CompletionPercent,
		XPAwarded:         entry.XPAwarded,
	}
	if entry.Reflection != nil {
		out.Reflected = true
		out.Summary = entry.Reflection.Summary
		out.DistractionsNoted = entry.Reflection.DistractionsNoted
		out.NextStep = entry.Reflection.NextStep
		out.ReflectedAt = entry.Reflection.CreatedAt
	}
	if entry.Insights != nil {
		out.AlignmentScore = entry.Insights.AlignmentScore
		out.InsightNotes = entry.Insights.Notes
	}
	return out
}

func toRole(role domain.Role) dto.RoleOutput {
	return dto.RoleOutput{Key: role.Key, Label: role.Label, XP: role.XP, Description: role.Description}
}
