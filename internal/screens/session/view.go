package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.state == nil:
		return renderLoading(width)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	}
	return s.renderQuestion(width)
}

func (s *SessionScreen) renderQuestion(width int) string {
	q, ok := s.state.Current()
	if !ok {
		return renderLoading(width)
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  Topic: " + q.TopicID)

	info := fmt.Sprintf("Q %d/%d  %s %d",
		s.state.Index+1, len(s.state.Plan.Questions),
		lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), s.state.TotalCorrect)
	if s.state.Plan.TimeLimit > 0 && s.env.Settings.TimerEnabled {
		info += "  " + theme.Timer(int(s.state.TimeLeft(s.now).Seconds()))
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(info)

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	textWidth := min(width-8, 72)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).Render(q.Text)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Render(s.choice.View())))

	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, textWidth))
	}
	return b.String()
}

func (s *SessionScreen) renderFeedback(width, textWidth int) string {
	var b strings.Builder
	if s.result.Correct {
		b.WriteString(layout.Center(width, theme.Correct, "Correct!"))
	} else {
		b.WriteString(layout.Center(width, theme.Incorrect, "Not quite"))
		b.WriteString("\n")
		b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("Correct answer: %d) %s", s.result.CorrectIndex+1, s.result.Question.CorrectOption())))
	}
	b.WriteString("\n\n")

	switch {
	case s.explanation != "":
		exp := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(s.explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	case s.explaining:
		b.WriteString(layout.Center(width, theme.Hint, "Generating explanation..."))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Press any key to continue..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "End session early?"))
	b.WriteString("\n")
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Answers so far are saved."))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return layout.Center(width, lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n\nPreparing your session...")
}

func renderError(width int, errMsg string) string {
	return layout.Center(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\nError: %s\n\nPress any key to go back.", errMsg))
}
