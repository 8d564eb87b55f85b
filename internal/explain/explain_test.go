package explain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/llm"
)

var q = bank.Question{
	ID:           "rw-001",
	TopicID:      "right-of-way",
	Text:         "Who goes first at an unmarked crossroads?",
	Options:      []string{"The car on the left", "The car on the right", "The faster car"},
	CorrectIndex: 1,
}

func TestExplain_BankExplanationWins(t *testing.T) {
	mock := llm.NewMockProvider()
	s := New(mock, 0)
	withText := q
	withText.Explanation = "Give way to the right."

	got, err := s.Explain(t.Context(), withText, 0)
	if err != nil || got != "Give way to the right." {
		t.Errorf("Explain() = %q, %v", got, err)
	}
	if len(mock.Calls()) != 0 {
		t.Error("provider called although the bank has an explanation")
	}
}

func TestExplain_NoProvider(t *testing.T) {
	got, err := New(nil, 0).Explain(t.Context(), q, 0)
	if err != nil || got != "" {
		t.Errorf("Explain() = %q, %v; want empty", got, err)
	}
}

func TestExplain_GeneratesAndCaches(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"  Vehicles from the right have priority.  "}`),
	})
	s := New(mock, 0)

	for range 2 {
		got, err := s.Explain(t.Context(), q, 0)
		if err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
		if got != "Vehicles from the right have priority." {
			t.Errorf("Explain() = %q", got)
		}
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(calls))
	}
	user := calls[0].Messages[0].Content
	if !strings.Contains(user, "Learner chose: 1. The car on the left") {
		t.Errorf("prompt missing chosen option:\n%s", user)
	}
	if calls[0].Schema == nil || calls[0].Schema.Name != "answer-explanation" {
		t.Error("request sent without the explanation schema")
	}
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota")})
	s := New(mock, 0)

	if _, err := s.Explain(t.Context(), q, 1); err == nil {
		t.Fatal("Explain() error = nil")
	}
	// Errors are not cached.
	mock.Add(llm.MockResponse{Content: json.RawMessage(`{"explanation":"ok"}`)})
	if got, err := s.Explain(t.Context(), q, 1); err != nil || got != "ok" {
		t.Errorf("retry Explain() = %q, %v", got, err)
	}
}

func TestPrompt_CorrectChoiceOmitsLearnerLine(t *testing.T) {
	p := prompt(q, 1)
	if strings.Contains(p, "Learner chose") {
		t.Errorf("prompt mentions learner choice for a correct answer:\n%s", p)
	}
	if !strings.Contains(p, "Correct answer: 2. The car on the right") {
		t.Errorf("prompt missing correct answer:\n%s", p)
	}
}
