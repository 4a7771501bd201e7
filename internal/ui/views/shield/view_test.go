package shield

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHoldingXRequestsExit(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := New(func() time.Time { return now })
	m.SetActive(true)
	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}

	var cmd tea.Cmd
	for i := 0; i <= 30; i++ {
		m, cmd = m.Update(press)
		if i < 30 && cmd != nil {
			t.Fatalf("exit requested early at press %d", i)
		}
		now = now.Add(100 * time.Millisecond)
	}
	if cmd == nil {
		t.Fatalf("expected exit after a three second hold")
	}
	if _, ok := cmd().(ExitMsg); !ok {
		t.Fatalf("expected ExitMsg")
	}
}

func TestHoldIgnoredWithoutSession(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := New(func() time.Time { return now })
	for i := 0; i < 40; i++ {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
		if cmd != nil {
			t.Fatalf("exit must not fire while the shield is down")
		}
		now = now.Add(100 * time.Millisecond)
	}
}
