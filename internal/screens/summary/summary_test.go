package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/router"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
)

func testSummary(mode session.Mode, correct int) session.Summary {
	return session.Summary{
		SessionID: "s1",
		Mode:      mode,
		Asked:     20,
		Planned:   20,
		Correct:   correct,
		Wrong:     20 - correct,
		Duration:  15*time.Minute + 4*time.Second,
		Passed:    mode == session.ModeExam && correct >= session.ExamPassThreshold,
		Topics: []session.TopicResult{
			{TopicID: "road-signs", Attempted: 12, Correct: correct - 8},
			{TopicID: "right-of-way", Attempted: 8, Correct: 8},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(session.ModePractice, 15))
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testSummary(session.ModePractice, 15)).View(100, 30)
	for _, want := range []string{"Duration: 15:04", "Correct: 15", "road-signs", "right-of-way"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in summary view", want)
		}
	}
	if strings.Contains(view, "PASSED") || strings.Contains(view, "FAILED") {
		t.Error("practice summary should not show an exam verdict")
	}
}

func TestSummaryScreen_ExamVerdict(t *testing.T) {
	if view := New(testSummary(session.ModeExam, 18)).View(100, 30); !strings.Contains(view, "PASSED") {
		t.Error("expected PASSED at the threshold")
	}
	if view := New(testSummary(session.ModeExam, 17)).View(100, 30); !strings.Contains(view, "FAILED") {
		t.Error("expected FAILED below the threshold")
	}
}

func TestSummaryScreen_Empty(t *testing.T) {
	view := New(session.Summary{Mode: session.ModePractice}).View(80, 24)
	if !strings.Contains(view, "No questions answered.") {
		t.Error("expected empty-session message")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	s := New(testSummary(session.ModePractice, 15))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for enter")
	}
	if _, ok := cmd().(router.HomeMsg); !ok {
		t.Error("enter should go home")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command for esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should go back one screen")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if hints := New(testSummary(session.ModePractice, 15)).KeyHints(); len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
