package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "lockin/internal/modules/session/dto"
	shielddto "lockin/internal/modules/shield/dto"
	"lockin/internal/ui/components"
	"lockin/internal/ui/theme"
	journalview "lockin/internal/ui/views/journal"
	shieldview "lockin/internal/ui/views/shield"
	timerview "lockin/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, target string, lengthMinutes int, intakeID, flowKind string) (sessiondto.SessionOutput, error)
	Pause(ctx context.Context) sessiondto.SessionOutput
	Resume(ctx context.Context) sessiondto.SessionOutput
	Toggle(ctx context.Context) sessiondto.SessionOutput
	End(ctx context.Context, discard bool) sessiondto.EndOutput
	Tick(ctx context.Context) sessiondto.SessionOutput
	Watch(ctx context.Context, fn func(sessiondto.SessionOutput)) func()
}

type shieldPort interface {
	Check(ctx context.Context, rawURL string) (shielddto.CheckOutput, error)
	EmergencyExit(ctx context.Context) shielddto.ExitOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabJournal
	tabShield
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Journal", "Shield"}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionChangedMsg struct{ out sessiondto.SessionOutput }

type tickMsg time.Time

type tickedMsg struct{ out sessiondto.SessionOutput }

type actionMsg struct {
	out    sessiondto.SessionOutput
	status string
	err    error
}

type endedMsg struct {
	out    sessiondto.EndOutput
	status string
}

type shieldCheckedMsg struct {
	out shielddto.CheckOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Toggle  key.Binding
	End     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Exit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		End:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end early")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Exit:    key.NewBinding(key.WithKeys("x"), key.WithHelp("hold x", "emergency exit (shield)")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.End, k.Exit},
		{k.Tab, k.Palette},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It observes the session through the
// change bus and drives the completion router from its tick.
type Model struct {
	session  sessionPort
	shield   shieldPort
	interval time.Duration

	updates     chan sessiondto.SessionOutput
	unsubscribe func()

	timerView   timerview.Model
	journalView journalview.Model
	shieldView  shieldview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	current   sessiondto.SessionOutput
	status    string
	width     int
	height    int
}

// NewModel subscribes to session changes right away; call Close when the
// program exits.
func NewModel(session sessionPort, journal journalview.Port, shield shieldPort, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	m := Model{
		session:     session,
		shield:      shield,
		interval:    interval,
		updates:     make(chan sessiondto.SessionOutput, 1),
		timerView:   timerview.New(),
		journalView: journalview.New(journal),
		shieldView:  shieldview.New(nil),
		activeTab:   tabTimer,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
	updates := m.updates
	m.unsubscribe = session.Watch(context.Background(), func(out sessiondto.SessionOutput) {
		// Keep only the newest snapshot; the bus must never block on the UI.
		for {
			select {
			case updates <- out:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	return m
}

func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.tickCmd(), m.journalView.Load())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case sessionChangedMsg:
		m.observe(msg.out)
		return m, m.waitForChange()

	case tickMsg:
		return m, tea.Batch(m.runTick(), m.tickCmd())

	case tickedMsg:
		if msg.out.Finished {
			m.status = fmt.Sprintf("session complete: reflect with `lockin reflect --session %s`", msg.out.SessionID)
			m.activeTab = tabJournal
			m.observe(sessiondto.SessionOutput{})
			return m, m.journalView.Load()
		}
		m.observe(msg.out)

	case actionMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.observe(msg.out)
		m.status = msg.status

	case endedMsg:
		m.status = msg.status
		if msg.out.Ended {
			m.observe(sessiondto.SessionOutput{})
			return m, m.journalView.Load()
		}

	case shieldCheckedMsg:
		if msg.err != nil {
			m.status = "shield: " + msg.err.Error()
			return m, nil
		}
		verdict := msg.out.Host + " allowed"
		if msg.out.Blocked {
			verdict = msg.out.Host + ": " + msg.out.Message
		}
		m.shieldView.SetNotice(verdict)
		m.status = verdict

	case shieldview.ExitMsg:
		return m, m.emergencyExitCmd()

	case journalview.LoadedMsg:
		m.journalView, _ = m.journalView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case " ", "p":
			return m, m.actionCmd(func(ctx context.Context) (sessiondto.SessionOutput, string, error) {
				out := m.session.Toggle(ctx)
				return out, toggleStatus(out), nil
			})
		case "e":
			return m, m.endCmd(false)
		}
	}

	if m.activeTab == tabShield {
		var cmd tea.Cmd
		m.shieldView, cmd = m.shieldView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabJournal:
		return m.journalView.View()
	case tabShield:
		return m.shieldView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "lockin  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.current.Active {
		left = theme.Hot.Render("● "+components.Overlay(m.current)) + "  " + left
	}
	right := theme.Muted.Render("space:pause  e:end  tab:switch  ::command  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "start":
		if len(parts) < 3 {
			m.status = "usage: start <minutes> <target>"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid minutes: " + parts[1]
			return m, nil
		}
		target := strings.Join(parts[2:], " ")
		m.activeTab = tabTimer
		return m, m.actionCmd(func(ctx context.Context) (sessiondto.SessionOutput, string, error) {
			out, err := m.session.Start(ctx, target, minutes, "", "")
			return out, "locked in: " + target, err
		})
	case "pause":
		return m, m.actionCmd(func(ctx context.Context) (sessiondto.SessionOutput, string, error) {
			out := m.session.Pause(ctx)
			return out, toggleStatus(out), nil
		})
	case "resume":
		return m, m.actionCmd(func(ctx context.Context) (sessiondto.SessionOutput, string, error) {
			out := m.session.Resume(ctx)
			return out, toggleStatus(out), nil
		})
	case "end":
		return m, m.endCmd(false)
	case "discard":
		return m, m.endCmd(true)
	case "shield":
		if len(parts) < 2 {
			m.status = "usage: shield <url>"
			return m, nil
		}
		m.activeTab = tabShield
		return m, m.shieldCheckCmd(parts[1])
	case "journal":
		m.activeTab = tabJournal
		return m, m.journalView.Load()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) observe(out sessiondto.SessionOutput) {
	m.current = out
	m.timerView.SetSession(out)
	m.shieldView.SetActive(out.Active)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.shieldView, _ = m.shieldView.Update(sz)
}

func toggleStatus(out sessiondto.SessionOutput) string {
	switch {
	case !out.Active:
		return "no active session"
	case !out.Changed:
		return "nothing to do"
	case out.Paused:
		return "paused at " + components.FormatClock(out.RemainingSeconds)
	default:
		return "resumed"
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitForChange() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return sessionChangedMsg{out: <-updates}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) runTick() tea.Cmd {
	return func() tea.Msg {
		return tickedMsg{out: m.session.Tick(context.Background())}
	}
}

func (m Model) actionCmd(fn func(ctx context.Context) (sessiondto.SessionOutput, string, error)) tea.Cmd {
	return func() tea.Msg {
		out, status, err := fn(context.Background())
		return actionMsg{out: out, status: status, err: err}
	}
}

func (m Model) endCmd(discard bool) tea.Cmd {
	return func() tea.Msg {
		out := m.session.End(context.Background(), discard)
		switch {
		case !out.Ended:
			return endedMsg{out: out, status: "no active session"}
		case discard:
			return endedMsg{out: out, status: "session discarded"}
		case !out.Logged:
			return endedMsg{out: out, status: "session ended (log unavailable)"}
		default:
			return endedMsg{out: out, status: "session ended early and logged"}
		}
	}
}

func (m Model) shieldCheckCmd(rawURL string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.shield.Check(context.Background(), rawURL)
		return shieldCheckedMsg{out: out, err: err}
	}
}

func (m Model) emergencyExitCmd() tea.Cmd {
	return func() tea.Msg {
		out := m.shield.EmergencyExit(context.Background())
		status := "no active session"
		if out.Ended {
			status = out.Message
		}
		return endedMsg{out: sessiondto.EndOutput{Ended: out.Ended, Logged: out.Ended, SessionID: out.SessionID}, status: status}
	}
}
