package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// notationEntry is one line of the commit-notation legend.
type notationEntry struct {
	prefix string
	key    string
	desc   string
}

// notationLegend is the fixed legend shown under the commit prompt, with the
// quick-insert shortcut for each prefix.
var notationLegend = []notationEntry{
	{"F", "ctrl+f", "feature"},
	{"B", "ctrl+b", "bugfix"},
	{"r", "ctrl+r", "refactoring"},
	{"t", "ctrl+t", "test only"},
	{"d", "ctrl+d", "documentation"},
}

// Prompt is the modal commit-message form. Enter submits, Esc cancels.
type Prompt struct {
	input textinput.Model
}

// NewPrompt creates the commit-message prompt.
func NewPrompt() Prompt {
	ti := textinput.New()
	ti.Placeholder = "Commit message..."
	ti.Prompt = "> "
	ti.CharLimit = 156
	ti.Width = 50
	return Prompt{input: ti}
}

// Open focuses the input and clears any previous message.
func (p *Prompt) Open() tea.Cmd {
	p.input.Reset()
	return p.input.Focus()
}

// Close blurs and clears the input.
func (p *Prompt) Close() {
	p.input.Blur()
	p.input.Reset()
}

// Value returns the current message text.
func (p Prompt) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// Update forwards key events to the input, handling the quick-insert
// shortcuts first.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		for _, entry := range notationLegend {
			if key.String() == entry.key {
				p.input.SetValue(entry.prefix + " " + p.input.Value())
				p.input.CursorEnd()
				return nil
			}
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt box with the notation legend.
func (p Prompt) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("COMMIT") + "\n\n")
	b.WriteString(p.input.View() + "\n\n")

	legendKey := lipgloss.NewStyle().Foreground(highlight)
	legendDesc := lipgloss.NewStyle().Foreground(subtle)
	for _, entry := range notationLegend {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			legendKey.Render(fmt.Sprintf("%-2s %-7s", entry.prefix, entry.key)),
			legendDesc.Render(entry.desc)))
	}

	b.WriteString("\n" + statusStyle.Render("enter: commit • esc: cancel"))

	return paneStyle.Render(b.String())
}
