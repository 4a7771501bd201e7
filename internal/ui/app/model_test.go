package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	journaldto "lockin/internal/modules/journal/dto"
	sessiondto "lockin/internal/modules/session/dto"
	shielddto "lockin/internal/modules/shield/dto"
	"lockin/internal/ui/components"
)

type fakeSession struct {
	started  []string
	tick     sessiondto.SessionOutput
	watchers []func(sessiondto.SessionOutput)
	stopped  bool
}

func (f *fakeSession) Start(_ context.Context, target string, minutes int, _, _ string) (sessiondto.SessionOutput, error) {
	f.started = append(f.started, target)
	return sessiondto.SessionOutput{Active: true, Changed: true, Target: target, LengthMinutes: minutes, RemainingSeconds: minutes * 60, State: "running"}, nil
}
func (f *fakeSession) Pause(context.Context) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{}
}
func (f *fakeSession) Resume(context.Context) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{}
}
func (f *fakeSession) Toggle(context.Context) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{Active: true, Changed: true, Paused: true, RemainingSeconds: 61, State: "pausedHold"}
}
func (f *fakeSession) End(context.Context, bool) sessiondto.EndOutput {
	return sessiondto.EndOutput{Ended: true, Logged: true, SessionID: "s1"}
}
func (f *fakeSession) Tick(context.Context) sessiondto.SessionOutput { return f.tick }
func (f *fakeSession) Watch(_ context.Context, fn func(sessiondto.SessionOutput)) func() {
	f.watchers = append(f.watchers, fn)
	fn(sessiondto.SessionOutput{State: "idle"})
	return func() { f.stopped = true }
}

type fakeJournal struct{}

func (fakeJournal) List(context.Context, int) ([]journaldto.EntryOutput, error) { return nil, nil }
func (fakeJournal) Progress(context.Context) (journaldto.ProgressOutput, error) {
	return journaldto.ProgressOutput{Role: journaldto.RoleOutput{Label: "Focus Initiate"}}, nil
}

type fakeShield struct{}

func (fakeShield) Check(context.Context, string) (shielddto.CheckOutput, error) {
	return shielddto.CheckOutput{Host: "reddit.com", Blocked: true, Message: "Shield active: log it after the burn."}, nil
}
func (fakeShield) EmergencyExit(context.Context) shielddto.ExitOutput {
	return shielddto.ExitOutput{Ended: true, SessionID: "s1", Message: "Emergency exit engaged. Reactor safely powered down."}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestWatchFeedsLatestSnapshot(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := NewModel(session, fakeJournal{}, fakeShield{}, time.Second)
	session.watchers[0](sessiondto.SessionOutput{Active: true, State: "running", RemainingSeconds: 90, Target: "a"})
	session.watchers[0](sessiondto.SessionOutput{Active: true, State: "running", RemainingSeconds: 89, Target: "a"})

	msg := m.waitForChange()()
	m, _ = update(t, m, msg)
	if m.current.RemainingSeconds != 89 {
		t.Fatalf("expected newest snapshot, got %+v", m.current)
	}
	m.Close()
	if !session.stopped {
		t.Fatalf("close must unsubscribe")
	}
}

func TestFinishedTickSwitchesToJournal(t *testing.T) {
	t.Parallel()
	session := &fakeSession{tick: sessiondto.SessionOutput{Finished: true, SessionID: "s9", State: "finished"}}
	m := NewModel(session, fakeJournal{}, fakeShield{}, time.Second)
	m, _ = update(t, m, m.runTick()())
	if m.activeTab != tabJournal || !strings.Contains(m.status, "lockin reflect --session s9") {
		t.Fatalf("unexpected state after completion: tab=%d status=%q", m.activeTab, m.status)
	}
	if m.current.Active {
		t.Fatalf("finished session must not stay active")
	}
}

func TestPaletteStartAndToggle(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := NewModel(session, fakeJournal{}, fakeShield{}, time.Second)

	m, cmd := update(t, m, components.PaletteSubmitMsg{Input: "start 30 write the intro"})
	m, _ = update(t, m, cmd())
	if len(session.started) != 1 || session.started[0] != "write the intro" || m.current.LengthMinutes != 30 {
		t.Fatalf("unexpected start: %v %+v", session.started, m.current)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = update(t, m, cmd())
	if m.status != "paused at 01:01" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m, _ = update(t, m, components.PaletteSubmitMsg{Input: "start x y"})
	if !strings.HasPrefix(m.status, "invalid minutes") {
		t.Fatalf("expected minutes error, got %q", m.status)
	}
}

func TestEmergencyExitEndsSession(t *testing.T) {
	t.Parallel()
	m := NewModel(&fakeSession{}, fakeJournal{}, fakeShield{}, time.Second)
	m.observe(sessiondto.SessionOutput{Active: true, State: "running"})
	m, cmd := update(t, m, m.emergencyExitCmd()())
	if m.current.Active || !strings.HasPrefix(m.status, "Emergency exit engaged") || cmd == nil {
		t.Fatalf("unexpected exit handling: %+v %q", m.current, m.status)
	}
}
