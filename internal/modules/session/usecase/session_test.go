package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	journalout "lockin/internal/modules/journal/adapter/out"
	journalservice "lockin/internal/modules/journal/service"
	journalusecase "lockin/internal/modules/journal/usecase"
	sessionout "lockin/internal/modules/session/adapter/out"
	"lockin/internal/modules/session/dto"
	sessionin "lockin/internal/modules/session/port/in"
	"lockin/internal/modules/session/service"
	"lockin/internal/modules/session/usecase"
	apperrors "lockin/internal/platform/errors"
	"lockin/internal/platform/safestore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

type seqIDs struct{ n int }

func (g *seqIDs) New() string {
	g.n++
	return fmt.Sprintf("s%d", g.n)
}

type fixture struct {
	clock *fakeClock
	uc    sessionin.Usecase
	logs  *journalout.MemoryLogStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	logs := journalout.NewMemoryLogStore()
	journal := journalusecase.NewInteractor(journalservice.NewJournalService(clock, logs, nil), nil)
	recorder := sessionout.NewJournalRecorder(journal)

	slot := sessionout.NewSafeStoreSlot(safestore.NewMemory(nil), "focusSession", nil)
	engine := service.NewEngine(clock, &seqIDs{}, slot, service.NewBus(slot, nil, nil))
	router := service.NewRouter(engine, recorder, nil, nil)
	return fixture{clock: clock, uc: usecase.NewInteractor(engine, router, recorder, 25, nil), logs: logs}
}

func (f fixture) entries(t *testing.T) int {
	t.Helper()
	all, err := f.logs.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	return len(all)
}

func TestStartValidatesAndDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank target, got %v", err)
	}
	for _, bad := range []int{-1, usecase.MaxLengthMinutes + 1} {
		if _, err := f.uc.Start(ctx, dto.StartInput{Target: "x", LengthMinutes: bad}); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("length %d: expected invalid input, got %v", bad, err)
		}
	}
	out, err := f.uc.Start(ctx, dto.StartInput{Target: " Draft intro ", FlowKind: "TYPE_B"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !out.Active || !out.Changed || out.LengthMinutes != 25 || out.RemainingSeconds != 1500 || out.Target != "Draft intro" || out.State != "running" {
		t.Fatalf("unexpected start output: %+v", out)
	}
}

func TestEngineEndDoesNotLogButEndEarlyDoes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "x", LengthMinutes: 5}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if out := f.uc.Discard(ctx); !out.Ended || out.Logged {
		t.Fatalf("unexpected discard: %+v", out)
	}
	if f.entries(t) != 0 {
		t.Fatalf("discard must not log")
	}

	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "y", LengthMinutes: 5}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(2 * time.Minute)
	out := f.uc.EndEarly(ctx)
	if !out.Ended || !out.Logged || out.SessionID != "s2" {
		t.Fatalf("unexpected end: %+v", out)
	}
	entry, err := f.logs.Get(ctx, "s2")
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if entry.Completed || entry.ActiveMinutes() != 2 {
		t.Fatalf("expected abandoned entry with 2 active minutes, got %+v", entry)
	}
	if again := f.uc.EndEarly(ctx); again.Ended || again.Logged {
		t.Fatalf("ending twice must be a no-op: %+v", again)
	}
}

func TestReplacingSessionLogsItAsAbandoned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "a"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(time.Minute)
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "b"}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	entry, err := f.logs.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("replaced session not logged: %v", err)
	}
	if entry.Completed {
		t.Fatalf("replaced session must be abandoned")
	}
	if status := f.uc.Status(ctx); status.SessionID != "s2" {
		t.Fatalf("expected s2 active, got %+v", status)
	}
}

func TestToggleAndTickToCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if out := f.uc.Toggle(ctx); out.Active || out.Changed {
		t.Fatalf("toggle without session must be a no-op: %+v", out)
	}
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "t", LengthMinutes: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(20 * time.Second)
	paused := f.uc.Toggle(ctx)
	if !paused.Paused || !paused.Changed || paused.RemainingSeconds != 40 || paused.State != "pausedHold" {
		t.Fatalf("unexpected pause: %+v", paused)
	}
	f.clock.Advance(time.Hour)
	if tick := f.uc.Tick(ctx); tick.Finished || tick.RemainingSeconds != 40 {
		t.Fatalf("paused session must hold: %+v", tick)
	}
	if resumed := f.uc.Toggle(ctx); resumed.Paused || resumed.RemainingSeconds != 40 {
		t.Fatalf("unexpected resume: %+v", resumed)
	}
	f.clock.Advance(40 * time.Second)
	tick := f.uc.Tick(ctx)
	if !tick.Finished || tick.Active || tick.State != "finished" || tick.SessionID != "s1" {
		t.Fatalf("expected completion tick, got %+v", tick)
	}
	if again := f.uc.Tick(ctx); again.Finished || again.State != "idle" {
		t.Fatalf("completion must fire once: %+v", again)
	}
	entry, err := f.logs.Get(ctx, "s1")
	if err != nil || !entry.Completed {
		t.Fatalf("expected completed log entry, got %+v (%v)", entry, err)
	}
}

func TestWatchSeesEveryChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	var states []string
	unsubscribe := f.uc.Watch(ctx, func(out dto.SessionOutput) { states = append(states, out.State) })
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "w", LengthMinutes: 5}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.uc.Pause(ctx)
	f.uc.EndEarly(ctx)
	unsubscribe()
	f.uc.Start(ctx, dto.StartInput{Target: "after", LengthMinutes: 5})

	want := []string{"idle", "running", "pausedHold", "idle"}
	if fmt.Sprint(states) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, states)
	}
}

func TestEndOfFinishedSessionLogsCompleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "late", LengthMinutes: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(5 * time.Minute)
	if status := f.uc.Status(ctx); status.State != "finished" || status.RemainingSeconds != 0 || !status.Active {
		t.Fatalf("status must report finished without clearing: %+v", status)
	}
	if out := f.uc.EndEarly(ctx); !out.Logged {
		t.Fatalf("expected log on end")
	}
	entry, err := f.logs.Get(ctx, "s1")
	if err != nil || !entry.Completed || entry.ActiveMinutes() != 1 {
		t.Fatalf("expected completed 1-minute entry, got %+v (%v)", entry, err)
	}
}

func TestEndEarlyClearsEvenWhenLogFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, dto.StartInput{Target: "x"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.logs.Fail = errors.New("read-only")
	out := f.uc.EndEarly(ctx)
	if !out.Ended || out.Logged {
		t.Fatalf("unexpected end output: %+v", out)
	}
	if f.uc.Status(ctx).Active {
		t.Fatalf("slot must be cleared")
	}
}
