package timer

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "lockin/internal/modules/session/dto"
	"lockin/internal/ui/components"
	"lockin/internal/ui/theme"
)

// Model renders the countdown of the active session. It holds no session
// state of its own beyond the last snapshot it was handed.
type Model struct {
	session sessiondto.SessionOutput
	bar     progress.Model
	width   int
	height  int
}

func New() Model {
	return Model{bar: progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)), progress.WithoutPercentage())}
}

// SetSession replaces the snapshot shown.
func (m *Model) SetSession(out sessiondto.SessionOutput) {
	m.session = out
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-8))
	}
	return m, nil
}

func (m Model) View() string {
	if !m.session.Active {
		return m.place(theme.Pane.Render(strings.Join([]string{
			theme.Title.Render("No active session"),
			"",
			theme.Muted.Render("Start one with `lockin start <target>`"),
			theme.Muted.Render("or press : and type start 25 <target>."),
		}, "\n")))
	}

	s := m.session
	state := components.StateLabel(s.State)
	stateStyle := theme.Good
	if s.Paused {
		stateStyle = theme.Hot
	}
	lines := []string{
		theme.Title.Render(s.Target),
		"",
		theme.Clock.Render(components.FormatClock(s.RemainingSeconds)),
		"",
		m.bar.ViewAs(s.Progress),
		"",
		stateStyle.Render(state) + theme.Muted.Render("  "+lengthLabel(s.LengthMinutes)),
	}
	if s.FlowKind != "" {
		lines = append(lines, theme.Muted.Render("reactor "+strings.TrimPrefix(s.FlowKind, "TYPE_")))
	}
	return m.place(theme.Pane.Render(strings.Join(lines, "\n")))
}

func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func lengthLabel(minutes int) string {
	return components.FormatClock(minutes*60) + " planned"
}
