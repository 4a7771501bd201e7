package shield

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	shielddomain "lockin/internal/modules/shield/domain"
	"lockin/internal/ui/theme"
)

// ExitMsg asks the root model to run the emergency exit.
type ExitMsg struct{}

// Model is the full-screen shield panel. Holding x for three seconds
// requests an emergency exit.
type Model struct {
	hold   shielddomain.Hold
	bar    progress.Model
	now    func() time.Time
	active bool
	notice string
	width  int
	height int
}

func New(now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		bar: progress.New(progress.WithSolidFill(string(theme.Red)), progress.WithoutPercentage()),
		now: now,
	}
}

func (m *Model) SetActive(active bool) {
	m.active = active
	if !active {
		m.hold.Reset()
	}
}

// SetNotice shows a one-line message such as a blocked link verdict.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(40, msg.Width-8))
	case tea.KeyMsg:
		if msg.String() == "x" && m.active {
			if m.hold.Press(m.now()) {
				return m, func() tea.Msg { return ExitMsg{} }
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var lines []string
	if m.active {
		lines = append(lines, theme.Hot.Render("Shield up"), theme.Muted.Render("These stay off limits until the session ends:"))
	} else {
		lines = append(lines, theme.Title.Render("Shield down"), theme.Muted.Render("The shield activates with the next session."))
	}
	lines = append(lines, "", strings.Join(shielddomain.BlockedHosts, "  "), "")
	if m.active {
		lines = append(lines, theme.Muted.Render("Emergency exit: hold x"), m.bar.ViewAs(m.hold.Progress(m.now())))
	}
	if m.notice != "" {
		lines = append(lines, "", theme.Hot.Render(m.notice))
	}
	panel := theme.Alert.Width(min(72, max(40, m.width-4))).Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
