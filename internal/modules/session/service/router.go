package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lockin/internal/modules/session/domain"
	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/platform/logging"
)

// Evaluation is the router's view of the slot at one instant.
type Evaluation struct {
	State     domain.State
	Session   *domain.Session
	Remaining int
	// Fired is true only for the call that ran the terminal transition.
	Fired bool
}

// Router detects natural completion and runs the terminal transition once
// per session, however many observers evaluate it.
type Router struct {
	engine    *Engine
	recorder  sessionout.CompletionRecorder
	navigator sessionout.Navigator
	logger    *slog.Logger

	mu      sync.Mutex
	latched string
}

func NewRouter(engine *Engine, recorder sessionout.CompletionRecorder, navigator sessionout.Navigator, logger *slog.Logger) *Router {
	return &Router{engine: engine, recorder: recorder, navigator: navigator, logger: logging.OrDiscard(logger)}
}

func (r *Router) Evaluate(ctx context.Context, now time.Time) Evaluation {
	session, ok := r.engine.Current(ctx)
	if !ok {
		return Evaluation{State: domain.StateIdle}
	}
	eval := Evaluation{
		State:     domain.StateAt(&session, now),
		Session:   &session,
		Remaining: domain.Remaining(session, now),
	}
	if eval.State != domain.StateFinished {
		return eval
	}

	r.mu.Lock()
	if r.latched == session.SessionID {
		r.mu.Unlock()
		return eval
	}
	r.latched = session.SessionID
	r.mu.Unlock()

	eval.Fired = r.finish(ctx, session, now)
	return eval
}

// Latched reports the session the router last finished.
func (r *Router) Latched() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latched
}

func (r *Router) finish(ctx context.Context, session domain.Session, now time.Time) bool {
	// Another process may have finished or replaced it since Current.
	if current, ok := r.engine.Current(ctx); !ok || current.SessionID != session.SessionID {
		return false
	}
	if r.recorder != nil {
		outcome := domain.Outcome{Session: session, EndedAt: now, Completed: true}
		if err := r.recorder.RecordOutcome(ctx, outcome); err != nil {
			r.logger.Warn("completion: dropping log entry", "session_id", session.SessionID, "error", err)
		}
	}
	r.engine.EndSession(ctx, session.SessionID)
	if r.navigator != nil {
		if err := r.navigator.ShowReflection(ctx, session); err != nil {
			r.logger.Warn("completion: navigation failed", "session_id", session.SessionID, "error", err)
		}
	}
	return true
}
