// Package explain produces the explanation shown after an answer.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/llm"
)

// Purpose labels explanation requests in the LLM request log.
const Purpose = "explain"

const systemPrompt = `You are a driving theory instructor preparing learners for the Uzbekistan driving licence exam.
Explain in two or three short sentences why the correct answer is right.
If the learner chose a wrong option, say briefly why that option is wrong.
Answer in the language of the question.`

var schema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Short explanation of the correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two or three sentences",
				"minLength":   1,
			},
		},
		"required":             []string{"explanation"},
		"additionalProperties": false,
	},
}

type output struct {
	Explanation string `json:"explanation"`
}

// Service returns question explanations, generating missing ones with a
// model when one is configured.
type Service struct {
	provider llm.Provider
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]string
}

// New creates a service. provider may be nil, in which case questions
// without a bank explanation get none.
func New(provider llm.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{provider: provider, timeout: timeout, cache: make(map[string]string)}
}

// Explain returns the explanation for q after the learner chose chosen.
// Generated explanations are cached per question.
func (s *Service) Explain(ctx context.Context, q bank.Question, chosen int) (string, error) {
	if q.Explanation != "" {
		return q.Explanation, nil
	}
	if s == nil || s.provider == nil {
		return "", nil
	}

	s.mu.Lock()
	cached, ok := s.cache[q.ID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, Purpose), s.timeout)
	defer cancel()

	req := llm.UserPrompt(systemPrompt, prompt(q, chosen))
	req.Schema = schema
	req.MaxTokens = 300
	req.Temperature = 0.2
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("explain %s: %w", q.ID, err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("decode explanation for %s: %w", q.ID, err)
	}
	text := strings.TrimSpace(out.Explanation)

	s.mu.Lock()
	s.cache[q.ID] = text
	s.mu.Unlock()
	return text, nil
}

func prompt(q bank.Question, chosen int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "Correct answer: %d. %s\n", q.CorrectIndex+1, q.CorrectOption())
	if chosen >= 0 && chosen < len(q.Options) && chosen != q.CorrectIndex {
		fmt.Fprintf(&b, "Learner chose: %d. %s\n", chosen+1, q.Options[chosen])
	}
	return b.String()
}
