package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lockin/internal/modules/session/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("session-%d", g.n)
}

// memSlot is a SessionSlot several engines can share, standing in for one
// storage origin.
type memSlot struct {
	mu     sync.Mutex
	key    string
	value  *domain.Session
	writes int
}

func (s *memSlot) Key() string {
	if s.key == "" {
		return "focusSession"
	}
	return s.key
}

func (s *memSlot) Read(context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == nil {
		return nil
	}
	c := s.value.Clone()
	return &c
}

func (s *memSlot) Write(_ context.Context, session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if session == nil {
		s.value = nil
		return
	}
	c := session.Clone()
	s.value = &c
}

type recorder struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
	err      error
}

func (r *recorder) RecordOutcome(_ context.Context, outcome domain.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

type navigator struct {
	mu    sync.Mutex
	shown []string
}

func (n *navigator) ShowReflection(_ context.Context, session domain.Session) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, session.SessionID)
	return nil
}
