package journal

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	journaldto "lockin/internal/modules/journal/dto"
	"lockin/internal/ui/theme"
)

// Port is the minimal interface this view needs from the journal use-case.
type Port interface {
	List(ctx context.Context, limit int) ([]journaldto.EntryOutput, error)
	Progress(ctx context.Context) (journaldto.ProgressOutput, error)
}

// LoadedMsg carries a fresh read of the log.
type LoadedMsg struct {
	Entries  []journaldto.EntryOutput
	Progress journaldto.ProgressOutput
	Err      error
}

const recent = 8

type Model struct {
	port     Port
	entries  []journaldto.EntryOutput
	progress journaldto.ProgressOutput
	err      error
}

func New(port Port) Model {
	return Model{port: port}
}

// Load reads the log in the background.
func (m Model) Load() tea.Cmd {
	if m.port == nil {
		return nil
	}
	port := m.port
	return func() tea.Msg {
		ctx := context.Background()
		entries, err := port.List(ctx, recent)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		progress, err := port.Progress(ctx)
		return LoadedMsg{Entries: entries, Progress: progress, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(LoadedMsg); ok {
		m.err = msg.Err
		if msg.Err == nil {
			m.entries = msg.Entries
			m.progress = msg.Progress
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Hot.Render("journal: " + m.err.Error())
	}
	p := m.progress
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Role.Label) + "\n")
	next := "top role reached"
	if p.NextRole != nil {
		next = fmt.Sprintf("%d XP to %s", p.XPToNext, p.NextRole.Label)
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d XP  %d sessions  %d min  streak %dd  %s", p.TotalXP, p.Sessions, p.TotalMinutes, p.StreakDays, next)) + "\n\n")
	if len(m.entries) == 0 {
		sb.WriteString(theme.Muted.Render("No sessions logged yet."))
		return theme.Pane.Render(sb.String())
	}
	for _, e := range m.entries {
		mark := theme.Good.Render("✓")
		if !e.Completed {
			mark = theme.Hot.Render("✗")
		}
		line := fmt.Sprintf("%s %s  %s  %d/%d min", mark, e.StartedAt.Local().Format("Jan 02 15:04"), e.Target, e.ActiveMinutes, e.LengthMinutes)
		if !e.Reflected {
			line += theme.Muted.Render("  (reflect: lockin reflect --session " + e.SessionID + ")")
		}
		sb.WriteString(line + "\n")
	}
	return theme.Pane.Render(strings.TrimRight(sb.String(), "\n"))
}
