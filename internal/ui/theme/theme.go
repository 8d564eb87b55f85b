// Package theme styles terminal output.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

// Palette, taken from Uzbek road sign colours.
var (
	Primary = lipgloss.Color("#1D4ED8") // sign blue
	Warning = lipgloss.Color("#FACC15") // sign yellow
	Success = lipgloss.Color("#16A34A")
	Error   = lipgloss.Color("#DC2626") // sign red
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	Border  = lipgloss.Color("#334155")
	Surface = lipgloss.Color("#0F172A")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	barFilled = lipgloss.NewStyle().Foreground(Primary)
	barEmpty  = lipgloss.NewStyle().Foreground(Border)
)

// LevelStyle colours a mastery level.
func LevelStyle(l mastery.Level) lipgloss.Style {
	switch l {
	case mastery.LevelStrong:
		return lipgloss.NewStyle().Foreground(Success)
	case mastery.LevelLearning:
		return lipgloss.NewStyle().Foreground(Warning)
	}
	return lipgloss.NewStyle().Foreground(Error)
}

// Bar renders percent (0-100) as a bar of width cells.
func Bar(percent, width int) string {
	width = max(width, 4)
	filled := min(width, max(0, percent*width/100))
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

// Mark renders the verdict line after an answer.
func Mark(correct bool) string {
	if correct {
		return Correct.Render("✓ Correct")
	}
	return Incorrect.Render("✗ Wrong")
}

// Timer renders a countdown as mm:ss, highlighted in the last minute.
func Timer(secs int) string {
	s := fmt.Sprintf("%02d:%02d", secs/60, secs%60)
	if secs < 60 {
		return Incorrect.Render(s)
	}
	return Hint.Render(s)
}
