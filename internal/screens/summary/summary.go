package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/router"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, func() tea.Msg { return router.HomeMsg{} }
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	title := "Session complete!"
	if sum.Expired {
		title = "Time is up!"
	}
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), title))
	b.WriteString("\n\n")

	if sum.Asked == 0 {
		b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim), "No questions answered."))
		return b.String()
	}

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Answered: %d/%d        Correct: %d        Accuracy: %.0f%%",
			sum.Asked, sum.Planned, sum.Correct, sum.Accuracy()*100)))
	b.WriteString("\n\n")

	if sum.Mode == session.ModeExam {
		if sum.Passed {
			b.WriteString(layout.Center(width, theme.Correct,
				fmt.Sprintf("PASSED  %d/%d", sum.Correct, session.ExamQuestionCount)))
		} else {
			b.WriteString(layout.Center(width, theme.Incorrect,
				fmt.Sprintf("FAILED  %d/%d, %d needed to pass", sum.Correct, session.ExamQuestionCount, session.ExamPassThreshold)))
		}
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Topics"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, tr := range sum.Topics {
		if tr.Attempted == 0 {
			continue
		}
		pct := tr.Correct * 100 / tr.Attempted
		line := fmt.Sprintf("%-18s %d/%d correct  %s", tr.TopicID, tr.Correct, tr.Attempted, theme.Bar(pct, 12))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if tr.Correct == tr.Attempted {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
