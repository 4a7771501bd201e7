package out

import (
	"context"
	"log/slog"

	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/platform/logging"
	"lockin/internal/platform/safestore"
)

// SafeStoreSlot keeps the session record in one safestore key.
type SafeStoreSlot struct {
	store  *safestore.Store
	key    string
	logger *slog.Logger
}

func NewSafeStoreSlot(store *safestore.Store, key string, logger *slog.Logger) sessionout.SessionSlot {
	return &SafeStoreSlot{store: store, key: key, logger: logging.OrDiscard(logger)}
}

func (s *SafeStoreSlot) Key() string {
	return s.key
}

func (s *SafeStoreSlot) Read(_ context.Context) *domain.Session {
	session := domain.Session{}
	if !s.store.ReadJSON(s.key, &session) {
		return nil
	}
	if !session.Valid() {
		s.logger.Warn("session slot: clearing unusable record", "key", s.key, "session_id", session.SessionID)
		s.store.Remove(s.key)
		return nil
	}
	normalized := session.Normalized()
	return &normalized
}

func (s *SafeStoreSlot) Write(_ context.Context, session *domain.Session) {
	if session == nil {
		s.store.Remove(s.key)
		return
	}
	s.store.WriteJSON(s.key, session.Normalized())
}
