package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

// MultiChoice is a numbered option picker. Options are chosen with the
// arrow keys and Enter or directly with their number.
type MultiChoice struct {
	Options  []string
	Selected int

	submitted bool
	chosen    int
	correct   int // revealed index, -1 while hidden
}

// NewMultiChoice creates a picker over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosen: -1, correct: -1}
}

// Update handles navigation. It reports whether an option was submitted.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.submitted {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		return m.submit(m.Selected), true
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			return m.submit(n - 1), true
		}
	}
	return m, false
}

func (m MultiChoice) submit(i int) MultiChoice {
	m.Selected = i
	m.chosen = i
	m.submitted = true
	return m
}

// Chosen returns the submitted option index, or -1.
func (m MultiChoice) Chosen() int {
	return m.chosen
}

// Submitted reports whether an option was chosen.
func (m MultiChoice) Submitted() bool {
	return m.submitted
}

// Reveal marks the correct option for the feedback view.
func (m *MultiChoice) Reveal(correct int) {
	m.correct = correct
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.correct >= 0 && i == m.correct:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.submitted && i == m.chosen:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
			if m.correct < 0 {
				style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			}
		case m.submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
