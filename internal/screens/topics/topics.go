package topics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/router"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
	sessionscreen "github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screens/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/components"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

type progressMsg struct {
	Progress mastery.Progress
	Err      error
}

// row is one topic line.
type row struct {
	mastery.TopicSummary
	Name string
}

// TopicsScreen lists topics with their mastery and starts topic practice.
type TopicsScreen struct {
	env    *screen.Env
	filter components.FilterInput
	rows   []row
	cursor int
	errMsg string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a topic list over the environment's bank.
func New(env *screen.Env) *TopicsScreen {
	return &TopicsScreen{env: env, filter: components.NewFilterInput("filter topics", 32)}
}

func (t *TopicsScreen) Init() tea.Cmd {
	progress := t.env.Progress
	return tea.Batch(t.filter.Init(), func() tea.Msg {
		p, err := progress.Load(context.Background())
		return progressMsg{Progress: p, Err: err}
	})
}

func (t *TopicsScreen) Title() string {
	return "Topics"
}

func (t *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice topic"},
		{Key: "type", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (t *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		t.load(msg)
		return t, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			t.cursor = max(t.cursor-1, 0)
			return t, nil
		case "down":
			t.cursor = min(t.cursor+1, max(len(t.visible())-1, 0))
			return t, nil
		case "enter":
			return t, t.startPractice()
		case "esc":
			return t, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	t.filter, cmd = t.filter.Update(msg)
	t.cursor = min(t.cursor, max(len(t.visible())-1, 0))
	return t, cmd
}

func (t *TopicsScreen) load(msg progressMsg) {
	if msg.Err != nil {
		t.errMsg = msg.Err.Error()
		return
	}
	b := t.env.Bank
	t.rows = t.rows[:0]
	for _, s := range mastery.AllTopics(b.TopicIDs(), b.Questions(), msg.Progress) {
		r := row{TopicSummary: s, Name: s.TopicID}
		if topic, err := b.Topic(s.TopicID); err == nil && topic.Name != "" {
			r.Name = topic.Name
		}
		t.rows = append(t.rows, r)
	}
}

func (t *TopicsScreen) visible() []row {
	var out []row
	for _, r := range t.rows {
		if t.filter.Match(r.TopicID, r.Name) {
			out = append(out, r)
		}
	}
	return out
}

func (t *TopicsScreen) startPractice() tea.Cmd {
	rows := t.visible()
	if len(rows) == 0 {
		return nil
	}
	cfg := session.Config{
		Mode:    session.ModePractice,
		Count:   t.env.Settings.QuestionsPerSession,
		TopicID: rows[t.cursor].TopicID,
	}
	s := sessionscreen.New(t.env, cfg)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (t *TopicsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(t.filter.View())
	b.WriteString("\n\n")

	if t.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  Error: " + t.errMsg))
		return b.String()
	}

	rows := t.visible()
	if len(rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  No matching topics."))
		return b.String()
	}

	nameWidth := max(min(width-50, 32), 12)
	for i, r := range rows {
		name := r.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		prefix := "    "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == t.cursor {
			prefix = "  ▸ "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		line := style.Render(fmt.Sprintf("%s%-*s", prefix, nameWidth, name)) +
			"  " + theme.Bar(r.Percentage, 16) +
			fmt.Sprintf(" %3d%%  ", r.Percentage) +
			theme.LevelStyle(r.Level()).Render(fmt.Sprintf("%-8s", r.Level())) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d/%d seen", r.Answered, r.Total))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
