package bootstrap

import (
	"context"
	"sync"
	"testing"

	sessionoutadapter "lockin/internal/modules/session/adapter/out"
	sessiondto "lockin/internal/modules/session/dto"
	"lockin/internal/platform/config"
)

func newTestConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	v := config.NewViper()
	v.Set(config.KeyDataDir, dir)
	cfg, err := config.New(v)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config, opts Options) *App {
	t.Helper()
	app, err := New(cfg, nil, opts)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

type recorded struct {
	mu   sync.Mutex
	outs []sessiondto.SessionOutput
}

func (r *recorded) add(out sessiondto.SessionOutput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outs = append(r.outs, out)
}

func (r *recorded) last(t *testing.T) sessiondto.SessionOutput {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outs) == 0 {
		t.Fatalf("no snapshots delivered")
	}
	return r.outs[len(r.outs)-1]
}

func TestTwoAppsOverOneDirectoryStayInSync(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t, t.TempDir())
	hub := sessionoutadapter.NewBroadcastHub()
	writer := newTestApp(t, cfg, Options{Hub: hub})
	observer := newTestApp(t, cfg, Options{Hub: hub})

	var seen recorded
	stop := observer.SessionCLI.Watch(ctx, seen.add)
	defer stop()
	if seen.last(t).Active {
		t.Fatalf("expected an empty slot first")
	}

	started, err := writer.SessionCLI.Start(ctx, "draft chapter", 30, "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := seen.last(t); !got.Active || got.SessionID != started.SessionID || got.LengthMinutes != 30 {
		t.Fatalf("observer missed the start: %+v", got)
	}

	writer.SessionCLI.Pause(ctx)
	if got := seen.last(t); !got.Paused {
		t.Fatalf("observer missed the pause: %+v", got)
	}
	if status := observer.SessionCLI.Status(ctx); status.State != "pausedHold" {
		t.Fatalf("observer status: %+v", status)
	}

	ended := observer.SessionCLI.End(ctx, false)
	if !ended.Ended || !ended.Logged {
		t.Fatalf("end from the observer: %+v", ended)
	}
	if writer.SessionCLI.Status(ctx).Active {
		t.Fatalf("writer still sees the ended session")
	}

	entries, err := writer.JournalCLI.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].SessionID != started.SessionID || entries[0].Completed {
		t.Fatalf("expected one abandoned entry, got %+v", entries)
	}
}

func TestStartWithoutEndLeavesLogEmptyUntilReplaced(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t, t.TempDir())
	app := newTestApp(t, cfg, Options{})

	first, err := app.SessionCLI.Start(ctx, "one", 10, "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if entries, _ := app.JournalCLI.List(ctx, 0); len(entries) != 0 {
		t.Fatalf("a running session must not be logged: %+v", entries)
	}
	if _, err := app.SessionCLI.Start(ctx, "two", 10, "", ""); err != nil {
		t.Fatalf("restart: %v", err)
	}
	entries, err := app.JournalCLI.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].SessionID != first.SessionID || entries[0].Status != "abandoned" {
		t.Fatalf("replaced session should be logged once as abandoned: %+v", entries)
	}

	if out := app.SessionCLI.End(ctx, true); !out.Ended || out.Logged {
		t.Fatalf("discard: %+v", out)
	}
	if entries, _ := app.JournalCLI.List(ctx, 0); len(entries) != 1 {
		t.Fatalf("discard must not log: %+v", entries)
	}
}

func TestVariantsShareDirectoryButNotSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	lockin := newTestApp(t, newTestConfig(t, dir), Options{})

	v := config.NewViper()
	v.Set(config.KeyDataDir, dir)
	v.Set(config.KeyVariant, "reactor")
	reactorCfg, err := config.New(v)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	reactor := newTestApp(t, reactorCfg, Options{})

	if _, err := lockin.SessionCLI.Start(ctx, "lockin work", 25, "", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if reactor.SessionCLI.Status(ctx).Active {
		t.Fatalf("reactor must not see the lockin slot")
	}
	lockin.SessionCLI.End(ctx, false)
	if entries, _ := reactor.JournalCLI.List(ctx, 0); len(entries) != 0 {
		t.Fatalf("reactor log must stay empty: %+v", entries)
	}
}
