package home

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
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screens/topics"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/components"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/theme"
)

// homeDataMsg carries the learner state loaded for the dashboard.
type homeDataMsg struct {
	Progress mastery.Progress
	Stats    stats.Stats
	Err      error
}

// HomeScreen is the main menu with a short progress dashboard.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu

	loaded   bool
	seen     int
	due      int
	weak     []mastery.TopicSummary
	accuracy float64
	streak   int
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	practice := session.Config{Mode: session.ModePractice, Count: env.Settings.QuestionsPerSession}
	items := []components.MenuItem{
		{Label: "PRACTICE", Key: "p", Detail: fmt.Sprintf("%d questions by review priority", practice.Count), Action: func() tea.Cmd {
			return push(sessionscreen.New(env, practice))
		}},
		{Label: "MOCK EXAM", Key: "e", Detail: fmt.Sprintf("%d questions, %d minutes", session.ExamQuestionCount,
			int(session.ExamTimeLimit.Minutes())), Action: func() tea.Cmd {
			return push(sessionscreen.New(env, session.Config{Mode: session.ModeExam}))
		}},
		{Label: "TOPICS", Key: "t", Detail: "practice one topic", Action: func() tea.Cmd {
			return push(topics.New(env))
		}},
		{Label: "QUIT", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{env: env, menu: components.NewMenu(items)}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// Init reloads the dashboard; it runs again whenever the screen is
// revealed after a session.
func (h *HomeScreen) Init() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		ctx := context.Background()
		progress, err := env.Progress.Load(ctx)
		if err != nil {
			return homeDataMsg{Err: err}
		}
		st, err := env.Stats.LoadStats(ctx)
		return homeDataMsg{Progress: progress, Stats: st, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if data, ok := msg.(homeDataMsg); ok {
		return h, h.applyData(data)
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) applyData(data homeDataMsg) tea.Cmd {
	if data.Err != nil {
		h.errMsg = data.Err.Error()
		return nil
	}
	b := h.env.Bank
	h.loaded = true
	h.errMsg = ""
	h.seen = len(data.Progress)
	h.due = len(spacedrep.DueQuestions(data.Progress, h.env.Now()))
	h.weak = mastery.WeakTopics(mastery.AllTopics(b.TopicIDs(), b.Questions(), data.Progress))
	h.accuracy = data.Stats.CorrectRate()
	h.streak = data.Stats.StreakDays

	status := screen.StatusMsg{Due: h.due, Streak: h.streak}
	return func() tea.Msg { return status }
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, layout.Center(width, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		"DRIVESMART\n")+layout.Center(width, theme.Hint, "Driving theory exam trainer"))

	switch {
	case h.errMsg != "":
		sections = append(sections, layout.Center(width, lipgloss.NewStyle().Foreground(theme.Error), "Error: "+h.errMsg))
	case h.loaded:
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.renderStats()))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return "\n" + strings.Join(sections, "\n\n")
}

func (h *HomeScreen) renderStats() string {
	total := h.env.Bank.Len()
	lines := []string{
		fmt.Sprintf("Seen      %s %d/%d", theme.Bar(percent(h.seen, total), 16), h.seen, total),
		fmt.Sprintf("Due now   %d", h.due),
		fmt.Sprintf("Accuracy  %.0f%%", h.accuracy),
	}
	if len(h.weak) > 0 {
		names := make([]string, 0, 3)
		for _, s := range h.weak[:min(3, len(h.weak))] {
			names = append(names, s.TopicID)
		}
		lines = append(lines, "Weak      "+theme.LevelStyle(mastery.LevelWeak).Render(strings.Join(names, ", ")))
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}

func (h *HomeScreen) Title() string {
	return "Home"
}
