package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lockin/internal/modules/journal/domain"
	journalout "lockin/internal/modules/journal/port/out"
	"lockin/internal/platform/clock"
	apperrors "lockin/internal/platform/errors"
)

type JournalService struct {
	clock clock.Clock
	store journalout.LogStore
	notes journalout.NoteWriter
}

func NewJournalService(clock clock.Clock, store journalout.LogStore, notes journalout.NoteWriter) *JournalService {
	return &JournalService{clock: clock, store: store, notes: notes}
}

// Record appends the entry, or updates it in place when the session was
// already logged. A reflection attached earlier survives the update.
func (s *JournalService) Record(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if strings.TrimSpace(entry.SessionID) == "" {
		return domain.Entry{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	if entry.LengthMinutes < 1 {
		return domain.Entry{}, fmt.Errorf("%w: length must be at least one minute", apperrors.ErrInvalidInput)
	}
	if entry.EndedAt.Before(entry.StartedAt) {
		entry.StartedAt = entry.EndedAt
	}
	existing, err := s.store.Get(ctx, entry.SessionID)
	switch {
	case err == nil:
		entry = entry.MergedOnto(existing)
	case !errors.Is(err, apperrors.ErrNotFound):
		return domain.Entry{}, err
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, sessionID string) (domain.Entry, error) {
	return s.store.Get(ctx, strings.TrimSpace(sessionID))
}

func (s *JournalService) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrInvalidInput)
	}
	return s.store.List(ctx, limit)
}

// Reflect stores the learner's reflection on a logged session. intent may be
// empty, in which case no alignment score is computed.
func (s *JournalService) Reflect(ctx context.Context, sessionID string, reflection domain.Reflection, completionPercent, xpAwarded *int, intent string) (domain.Entry, error) {
	if strings.TrimSpace(reflection.Summary) == "" {
		return domain.Entry{}, fmt.Errorf("%w: summary is required", apperrors.ErrInvalidInput)
	}
	if completionPercent != nil && (*completionPercent < 0 || *completionPercent > 100) {
		return domain.Entry{}, fmt.Errorf("%w: completion percent must be between 0 and 100", apperrors.ErrInvalidInput)
	}
	if xpAwarded != nil && *xpAwarded < 0 {
		return domain.Entry{}, fmt.Errorf("%w: xp must not be negative", apperrors.ErrInvalidInput)
	}
	entry, err := s.store.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return domain.Entry{}, err
	}
	reflection.Summary = strings.TrimSpace(reflection.Summary)
	reflection.DistractionsNoted = strings.TrimSpace(reflection.DistractionsNoted)
	reflection.NextStep = strings.TrimSpace(reflection.NextStep)
	reflection.CreatedAt = s.clock.Now()

	var alignment *int
	if score, ok := domain.AlignmentScore(intent, reflection.Summary); ok {
		alignment = &score
	}
	entry = entry.Reflected(reflection, completionPercent, xpAwarded, alignment)
	if err := s.store.Upsert(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}

// Progress summarises the whole log. A zero now means the service clock.
func (s *JournalService) Progress(ctx context.Context, now time.Time) (domain.Progress, error) {
	entries, err := s.store.List(ctx, 0)
	if err != nil {
		return domain.Progress{}, err
	}
	if now.IsZero() {
		now = s.clock.Now()
	}
	return domain.ComputeProgress(entries, now), nil
}

func (s *JournalService) Export(ctx context.Context, sessionID string) (string, error) {
	if s.notes == nil {
		return "", fmt.Errorf("note export is not configured")
	}
	entry, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return s.notes.WriteNote(ctx, entry)
}
