package out

import (
	"context"
	"fmt"
	"sync"

	"lockin/internal/modules/journal/domain"
	journalout "lockin/internal/modules/journal/port/out"
	apperrors "lockin/internal/platform/errors"
)

// MemoryLogStore is a LogStore for tests and for runs without a data dir.
type MemoryLogStore struct {
	mu      sync.Mutex
	entries []domain.Entry
	// Fail, when set, is returned by every Upsert.
	Fail error
}

func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{}
}

var _ journalout.LogStore = (*MemoryLogStore)(nil)

func (s *MemoryLogStore) Upsert(_ context.Context, entry domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for i := range s.entries {
		if s.entries[i].SessionID == entry.SessionID {
			s.entries[i] = entry
			return nil
		}
	}
	s.entries = append([]domain.Entry{entry}, s.entries...)
	return nil
}

func (s *MemoryLogStore) Get(_ context.Context, sessionID string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.SessionID == sessionID {
			return entry, nil
		}
	}
	return domain.Entry{}, fmt.Errorf("log entry %s: %w", sessionID, apperrors.ErrNotFound)
}

func (s *MemoryLogStore) List(_ context.Context, limit int) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Entry, n)
	copy(out, s.entries[:n])
	return out, nil
}
