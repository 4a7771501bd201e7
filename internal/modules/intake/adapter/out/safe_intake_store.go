package out

import (
	"context"
	"sync"

	"lockin/internal/modules/intake/domain"
	intakeout "lockin/internal/modules/intake/port/out"
	"lockin/internal/platform/safestore"
)

// SafeStoreIntakes keeps every intake of a variant under one slot key.
// Like the session slot it degrades to memory when the disk refuses writes.
type SafeStoreIntakes struct {
	store *safestore.Store
	key   string

	mu sync.Mutex
}

func NewSafeStoreIntakes(store *safestore.Store, key string) intakeout.IntakeStore {
	return &SafeStoreIntakes{store: store, key: key}
}

func (s *SafeStoreIntakes) Prepend(_ context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.load()
	all = append([]domain.Record{record}, all...)
	s.store.WriteJSON(s.key, all)
	return nil
}

func (s *SafeStoreIntakes) All(_ context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *SafeStoreIntakes) load() []domain.Record {
	var all []domain.Record
	if !s.store.ReadJSON(s.key, &all) {
		return nil
	}
	return all
}
