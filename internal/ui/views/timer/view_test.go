package timer

import (
	"strings"
	"testing"

	sessiondto "lockin/internal/modules/session/dto"
)

func TestViewShowsRedirectWithoutSession(t *testing.T) {
	t.Parallel()
	m := New()
	if !strings.Contains(m.View(), "No active session") {
		t.Fatalf("expected redirect screen:\n%s", m.View())
	}
}

func TestViewShowsCountdown(t *testing.T) {
	t.Parallel()
	m := New()
	m.SetSession(sessiondto.SessionOutput{Active: true, Target: "Write intro", RemainingSeconds: 754, LengthMinutes: 25, Progress: 0.5, State: "pausedHold", Paused: true})
	view := m.View()
	for _, want := range []string{"Write intro", "12:34", "paused", "25:00 planned"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
