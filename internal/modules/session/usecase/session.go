package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lockin/internal/modules/session/domain"
	"lockin/internal/modules/session/dto"
	sessionin "lockin/internal/modules/session/port/in"
	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/modules/session/service"
	apperrors "lockin/internal/platform/errors"
	"lockin/internal/platform/logging"
)

const MaxLengthMinutes = domain.MaxLengthMinutes

type Interactor struct {
	engine        *service.Engine
	router        *service.Router
	recorder      sessionout.CompletionRecorder
	defaultLength int
	logger        *slog.Logger
}

func NewInteractor(engine *service.Engine, router *service.Router, recorder sessionout.CompletionRecorder, defaultLength int, logger *slog.Logger) sessionin.Usecase {
	if defaultLength < 1 {
		defaultLength = 25
	}
	return &Interactor{engine: engine, router: router, recorder: recorder, defaultLength: defaultLength, logger: logging.OrDiscard(logger)}
}

// Start replaces any session in the slot. The replaced session is logged
// first, as completed if its time had already run out and abandoned otherwise.
func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	target := strings.TrimSpace(input.Target)
	if target == "" {
		return dto.SessionOutput{}, fmt.Errorf("%w: target is required", apperrors.ErrInvalidInput)
	}
	length := input.LengthMinutes
	if length == 0 {
		length = i.defaultLength
	}
	if length < 1 || length > MaxLengthMinutes {
		return dto.SessionOutput{}, fmt.Errorf("%w: length must be between 1 and %d minutes", apperrors.ErrInvalidInput, MaxLengthMinutes)
	}
	if previous, ok := i.engine.Current(ctx); ok {
		i.record(ctx, previous, i.engine.Now())
	}
	session := i.engine.Start(ctx, domain.Draft{
		Target:        target,
		LengthMinutes: length,
		IntakeID:      strings.TrimSpace(input.IntakeID),
		FlowKind:      strings.TrimSpace(input.FlowKind),
	})
	out := toOutput(&session, i.engine.Now())
	out.Changed = true
	return out, nil
}

func (i *Interactor) Pause(ctx context.Context) dto.SessionOutput {
	return i.changed(i.engine.Pause(ctx))
}

func (i *Interactor) Resume(ctx context.Context) dto.SessionOutput {
	return i.changed(i.engine.Resume(ctx))
}

func (i *Interactor) Toggle(ctx context.Context) dto.SessionOutput {
	current, ok := i.engine.Current(ctx)
	if !ok {
		return toOutput(nil, i.engine.Now())
	}
	if current.Paused {
		return i.Resume(ctx)
	}
	return i.Pause(ctx)
}

// EndEarly logs the session and clears the slot. A failed log write is
// reported through Logged and never keeps the session alive.
func (i *Interactor) EndEarly(ctx context.Context) dto.EndOutput {
	current, ok := i.engine.Current(ctx)
	if !ok {
		return dto.EndOutput{}
	}
	logged := i.record(ctx, current, i.engine.Now())
	ended := i.engine.EndSession(ctx, current.SessionID)
	return dto.EndOutput{Ended: ended, Logged: logged, SessionID: current.SessionID}
}

// Discard clears the slot without writing to the log.
func (i *Interactor) Discard(ctx context.Context) dto.EndOutput {
	current, _ := i.engine.Current(ctx)
	return dto.EndOutput{Ended: i.engine.End(ctx), SessionID: current.SessionID}
}

// Status reads the slot without running the completion router.
func (i *Interactor) Status(ctx context.Context) dto.SessionOutput {
	current, ok := i.engine.Current(ctx)
	if !ok {
		return toOutput(nil, i.engine.Now())
	}
	return toOutput(&current, i.engine.Now())
}

// Tick evaluates the completion router at the engine clock. Finished is set
// only on the tick that ran the terminal transition.
func (i *Interactor) Tick(ctx context.Context) dto.SessionOutput {
	now := i.engine.Now()
	eval := i.router.Evaluate(ctx, now)
	out := toOutput(eval.Session, now)
	out.State = string(eval.State)
	out.Finished = eval.Fired
	if eval.Fired {
		out.Active = false
	}
	return out
}

func (i *Interactor) Watch(ctx context.Context, fn func(dto.SessionOutput)) func() {
	return i.engine.Subscribe(ctx, func(session *domain.Session) {
		fn(toOutput(session, i.engine.Now()))
	})
}

func (i *Interactor) record(ctx context.Context, session domain.Session, now time.Time) bool {
	if i.recorder == nil {
		return false
	}
	outcome := domain.Outcome{
		Session:   session,
		EndedAt:   now,
		Completed: domain.StateAt(&session, now) == domain.StateFinished,
	}
	if err := i.recorder.RecordOutcome(ctx, outcome); err != nil {
		i.logger.Warn("session: dropping log entry", "session_id", session.SessionID, "error", err)
		return false
	}
	return true
}

func (i *Interactor) changed(session domain.Session, changed bool) dto.SessionOutput {
	now := i.engine.Now()
	if session.SessionID == "" {
		return toOutput(nil, now)
	}
	out := toOutput(&session, now)
	out.Changed = changed
	return out
}

func toOutput(session *domain.Session, now time.Time) dto.SessionOutput {
	out := dto.SessionOutput{State: string(domain.StateAt(session, now)), ObservedAt: now}
	if session == nil {
		return out
	}
	out.Active = true
	out.SessionID = session.SessionID
	out.Target = session.Target
	out.LengthMinutes = session.LengthMinutes
	out.Paused = session.Paused
	out.RemainingSeconds = domain.Remaining(*session, now)
	out.Progress = domain.Progress(*session, now)
	out.IntakeID = session.IntakeID
	out.FlowKind = session.FlowKind
	out.StartedAt = session.StartedAt()
	return out
}
