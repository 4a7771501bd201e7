package out

import (
	"context"

	"lockin/internal/modules/journal/domain"
)

// LogStore persists completion log entries for one variant. Get returns
// apperrors.ErrNotFound for unknown sessions. List is newest first.
type LogStore interface {
	Upsert(ctx context.Context, entry domain.Entry) error
	Get(ctx context.Context, sessionID string) (domain.Entry, error)
	List(ctx context.Context, limit int) ([]domain.Entry, error)
}

// IntentSource resolves the stated intent recorded before a session.
type IntentSource interface {
	Intent(ctx context.Context, intakeID string) (string, error)
}

type NoteWriter interface {
	WriteNote(ctx context.Context, entry domain.Entry) (string, error)
}
