package session

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/router"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screen"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/screens/summary"
	sess "github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/components"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/ui/layout"
)

// SessionScreen plays one practice session or mock exam.
type SessionScreen struct {
	env    *screen.Env
	cfg    sess.Config
	runner *sess.Runner
	state  *sess.State

	choice      components.MultiChoice
	result      *sess.Result
	explanation string
	explaining  bool
	confirmQuit bool
	ending      bool
	now         time.Time
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a session screen for cfg.
func New(env *screen.Env, cfg sess.Config) *SessionScreen {
	return &SessionScreen{env: env, cfg: cfg, runner: env.NewRunner()}
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.state != nil {
		return nil
	}
	runner, cfg := s.runner, s.cfg
	return func() tea.Msg {
		state, err := runner.Start(context.Background(), cfg)
		return sessionInitMsg{State: state, Err: err}
	}
}

func (s *SessionScreen) Title() string {
	if s.cfg.Mode == sess.ModeExam {
		return "Mock exam"
	}
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.state == nil:
		return nil
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.result != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionInitMsg:
		return s.handleInit(msg)
	case timerTickMsg:
		return s.handleTimerTick()
	case explanationMsg:
		return s.handleExplanation(msg)
	case sessionEndMsg:
		return s.handleSessionEnd()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleInit(msg sessionInitMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.state = msg.State
	s.now = s.env.Now()
	s.showCurrent()
	if s.state.Plan.TimeLimit > 0 {
		return s, tickCmd()
	}
	return s, nil
}

func (s *SessionScreen) showCurrent() {
	q, ok := s.state.Current()
	if !ok {
		return
	}
	s.choice = components.NewMultiChoice(q.Options)
	s.result = nil
	s.explanation = ""
	s.explaining = false
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.state == nil || s.ending {
		return s, nil
	}
	s.now = s.env.Now()
	if s.state.Expired(s.now) {
		return s, endCmd()
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleExplanation(msg explanationMsg) (screen.Screen, tea.Cmd) {
	if s.result == nil || s.result.Question.ID != msg.QuestionID {
		return s, nil
	}
	s.explaining = false
	if msg.Err != nil {
		slog.Warn("explanation unavailable", "question_id", msg.QuestionID, "error", msg.Err)
		return s, nil
	}
	s.explanation = msg.Text
	return s, nil
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.ending {
		return s, nil
	}
	s.ending = true
	if s.state == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	sum, err := s.runner.Finish(context.Background())
	if err != nil {
		slog.Error("finish session", "error", err)
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.state == nil || s.ending {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, endCmd()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	// Feedback: any key moves on.
	if s.result != nil {
		return s.advance()
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	var submitted bool
	s.choice, submitted = s.choice.Update(msg)
	if submitted {
		return s.submitAnswer()
	}
	return s, nil
}

// submitAnswer records the chosen option. Practice sessions show feedback
// first; exams move straight on.
func (s *SessionScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	res, err := s.runner.Answer(context.Background(), s.choice.Chosen())
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if s.cfg.Mode == sess.ModeExam {
		return s.advance()
	}

	s.result = &res
	s.choice.Reveal(res.CorrectIndex)
	s.explanation = res.Explanation
	if s.explanation != "" || s.env.Explainer == nil {
		return s, nil
	}

	s.explaining = true
	ex, q, chosen := s.env.Explainer, res.Question, res.Chosen
	return s, func() tea.Msg {
		text, err := ex.Explain(context.Background(), q, chosen)
		return explanationMsg{QuestionID: q.ID, Text: text, Err: err}
	}
}

func (s *SessionScreen) advance() (screen.Screen, tea.Cmd) {
	if !s.runner.Next() || s.state.Expired(s.env.Now()) {
		return s, endCmd()
	}
	s.showCurrent()
	return s, nil
}

func endCmd() tea.Cmd {
	return func() tea.Msg { return sessionEndMsg{} }
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
