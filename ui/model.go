package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jesspatton/tcr/classify"
	"github.com/jesspatton/tcr/engine"
)

// Pane represents a distinct section of the UI.
type Pane int

const (
	// PaneStatus is the watch-state pane.
	PaneStatus Pane = iota
	// PaneOutput is the test transcript pane.
	PaneOutput
)

// tickMsg drives the elapsed-time readout while a run is live.
type tickMsg time.Time

const elapsedTickInterval = 100 * time.Millisecond

// Model represents the application state for the Bubbletea program.
type Model struct {
	// UI State
	activePane Pane
	width      int
	height     int
	ready      bool
	showHelp   bool
	ticking    bool
	viewport   viewport.Model

	// Commit prompt
	prompt     Prompt
	promptOpen bool

	// Components
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Dependencies
	engine *engine.Engine
}

// NewModel creates and initializes a new Model around an engine.
func NewModel(e *engine.Engine) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#A0A0A0"})
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#808080"})
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#606060"})
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(highlight)

	return Model{
		activePane: PaneStatus,
		keys:       NewKeyMap(),
		help:       h,
		spinner:    sp,
		prompt:     NewPrompt(),
		engine:     e,
	}
}

// Init initializes the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.engine.Init(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.promptOpen {
			return m.updatePrompt(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.Shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.engine.TogglePause()
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.activePane == PaneStatus {
				m.activePane = PaneOutput
			} else {
				m.activePane = PaneStatus
			}
			return m, nil
		}

		if m.activePane == PaneOutput {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		paneWidth := (m.width / 2) - 4
		paneHeight := m.height - 5
		viewportHeight := paneHeight - 2

		if !m.ready {
			m.viewport = viewport.New(paneWidth, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = paneWidth
			m.viewport.Height = viewportHeight
		}
		m.syncViewport()
		return m, nil

	case spinner.TickMsg:
		// The indicator is only rendered while idle and unpaused, but the
		// tick chain keeps going so it resumes on its own.
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.engine.State.RunInProgress {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil

	case engine.PromptRequestMsg:
		m.promptOpen = true
		return m, m.prompt.Open()
	}

	// Everything else belongs to the engine.
	cmd := m.engine.Update(msg)
	m.syncViewport()

	var tickCmd tea.Cmd
	if m.engine.State.RunInProgress && !m.ticking {
		m.ticking = true
		tickCmd = m.tick()
	}
	return m, tea.Batch(cmd, tickCmd)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(elapsedTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		message := m.prompt.Value()
		m.promptOpen = false
		m.prompt.Close()
		return m, m.engine.Update(engine.PromptResultMsg{Message: message})
	case "esc":
		m.promptOpen = false
		m.prompt.Close()
		return m, m.engine.Update(engine.PromptResultMsg{Cancelled: true})
	default:
		cmd := m.prompt.Update(msg)
		return m, cmd
	}
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.wrapOutput(m.viewport.Width, m.engine.State.Transcript))
	m.viewport.GotoBottom()
}

func (m Model) wrapOutput(width int, content string) string {
	if width <= 0 {
		return content
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

// View renders the UI based on the current state.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.promptOpen {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.prompt.View(),
		)
	}

	paneWidth := (m.width / 2) - 2
	paneHeight := m.height - 4

	statusRender := m.renderStatus(paneWidth, paneHeight)

	var outputView strings.Builder
	outputView.WriteString(titleStyle.Render("TRANSCRIPT") + "\n\n")
	if !m.ready {
		outputView.WriteString("Initializing...")
	} else {
		outputView.WriteString(m.viewport.View())
	}

	outputStyle := paneStyle
	if m.activePane == PaneOutput {
		outputStyle = activePaneStyle
	}
	outputRender := outputStyle.
		Width(paneWidth).
		Height(paneHeight).
		Render(outputView.String())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, statusRender, outputRender)
	footer := statusStyle.Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, panes, footer)
}

func (m Model) renderStatus(paneWidth, paneHeight int) string {
	s := m.engine.State

	var b strings.Builder
	b.WriteString(titleStyle.Render("TCR") + "\n\n")
	b.WriteString(fmt.Sprintf("root: %s\n", s.RootPath))
	b.WriteString(fmt.Sprintf("projects: %d\n\n", len(s.Projects)))

	switch {
	case s.Paused:
		b.WriteString(toleratedStyle.Render("paused") + "\n")
	case s.RunInProgress:
		elapsed := time.Since(s.RunStart).Seconds()
		b.WriteString(fmt.Sprintf("running %s (%.1fs)\n", s.Job.ProjectName, elapsed))
	default:
		b.WriteString(m.spinner.View() + "watching\n")
	}

	if s.HasOutcome {
		b.WriteString("\nlast run: " + renderOutcome(s.LastOutcome))
		b.WriteString(fmt.Sprintf(" (%.1fs)\n", s.Elapsed.Seconds()))
	}

	if s.Notice != "" {
		b.WriteString("\n" + statusStyle.Render(s.Notice) + "\n")
	}

	statusPane := paneStyle
	if m.activePane == PaneStatus {
		statusPane = activePaneStyle
	}
	return statusPane.
		Width(paneWidth).
		Height(paneHeight).
		Render(b.String())
}

func renderOutcome(o classify.Outcome) string {
	switch o {
	case classify.TestsPassed:
		return passStyle.Render(o.String())
	case classify.TestsFailed, classify.BuildFailed:
		return failStyle.Render(o.String())
	case classify.SingleNotImplementedAllowed:
		return toleratedStyle.Render(o.String())
	default:
		return statusStyle.Render(o.String())
	}
}
