package service

import (
	"context"
	"sync"
	"time"

	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/platform/clock"
	"lockin/internal/platform/id"
)

// Engine is the only writer of the session slot. Control operations never
// fail: calling them without a matching session is a no-op.
type Engine struct {
	clock clock.Clock
	ids   id.Generator
	slot  sessionout.SessionSlot
	bus   *Bus

	mu sync.Mutex
}

func NewEngine(clock clock.Clock, ids id.Generator, slot sessionout.SessionSlot, bus *Bus) *Engine {
	return &Engine{clock: clock, ids: ids, slot: slot, bus: bus}
}

// Start writes a fresh running session, replacing whatever was there.
func (e *Engine) Start(ctx context.Context, draft domain.Draft) domain.Session {
	e.mu.Lock()
	session := domain.New(e.ids.New(), draft, e.clock.Now())
	e.slot.Write(ctx, &session)
	e.mu.Unlock()

	e.notify(ctx)
	return session.Clone()
}

// Pause freezes the remaining time. It reports false when there is no
// running session.
func (e *Engine) Pause(ctx context.Context) (domain.Session, bool) {
	return e.transition(ctx, func(s domain.Session) (domain.Session, bool) {
		if s.Paused {
			return s, false
		}
		return domain.Paused(s, e.clock.Now()), true
	})
}

// Resume restarts the countdown from the paused snapshot. It reports false
// when there is no paused session.
func (e *Engine) Resume(ctx context.Context) (domain.Session, bool) {
	return e.transition(ctx, func(s domain.Session) (domain.Session, bool) {
		if !s.Paused {
			return s, false
		}
		return domain.Resumed(s, e.clock.Now()), true
	})
}

// End clears the slot unconditionally. It reports whether a session was
// present. Ending never writes to the completion log.
func (e *Engine) End(ctx context.Context) bool {
	e.mu.Lock()
	existed := e.slot.Read(ctx) != nil
	e.slot.Write(ctx, nil)
	e.mu.Unlock()

	e.notify(ctx)
	return existed
}

// EndSession clears the slot only while it still holds sessionID, so a
// session started elsewhere in the meantime survives a late terminal step.
func (e *Engine) EndSession(ctx context.Context, sessionID string) bool {
	e.mu.Lock()
	current := e.slot.Read(ctx)
	if current == nil || current.SessionID != sessionID {
		e.mu.Unlock()
		return false
	}
	e.slot.Write(ctx, nil)
	e.mu.Unlock()

	e.notify(ctx)
	return true
}

// Current returns the slot content.
func (e *Engine) Current(ctx context.Context) (domain.Session, bool) {
	s := e.slot.Read(ctx)
	if s == nil {
		return domain.Session{}, false
	}
	return s.Clone(), true
}

// Subscribe forwards to the bus; without a bus the listener only receives
// the current snapshot.
func (e *Engine) Subscribe(ctx context.Context, listener Listener) func() {
	if e.bus == nil {
		listener(e.slot.Read(ctx))
		return func() {}
	}
	return e.bus.Subscribe(ctx, listener)
}

// Now is the engine clock, shared with observers so they agree on elapsed time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func (e *Engine) transition(ctx context.Context, next func(domain.Session) (domain.Session, bool)) (domain.Session, bool) {
	e.mu.Lock()
	current := e.slot.Read(ctx)
	if current == nil {
		e.mu.Unlock()
		return domain.Session{}, false
	}
	updated, changed := next(*current)
	if !changed {
		e.mu.Unlock()
		return updated.Clone(), false
	}
	e.slot.Write(ctx, &updated)
	e.mu.Unlock()

	e.notify(ctx)
	return updated.Clone(), true
}

func (e *Engine) notify(ctx context.Context) {
	if e.bus != nil {
		e.bus.Notify(ctx)
	}
}
