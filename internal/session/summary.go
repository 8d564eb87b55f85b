package session

import (
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
)

// Summary holds the data shown when a session ends.
type Summary struct {
	SessionID string
	Mode      Mode
	Asked     int // answered questions
	Planned   int
	Correct   int
	Wrong     int
	Topics    []TopicResult
	Duration  time.Duration
	Passed    bool // exam mode only
	Expired   bool
}

// Accuracy returns the share of answered questions that were correct.
func (s Summary) Accuracy() float64 {
	if s.Asked == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Asked)
}

// Summary builds the summary of the session at now.
func (s *State) Summary(now time.Time) Summary {
	sum := Summary{
		SessionID: s.Plan.ID,
		Mode:      s.Plan.Mode,
		Asked:     len(s.Answers),
		Planned:   len(s.Plan.Questions),
		Correct:   s.TotalCorrect,
		Wrong:     len(s.Answers) - s.TotalCorrect,
		Duration:  now.Sub(s.Plan.StartedAt),
		Expired:   s.Expired(now),
	}
	if s.Plan.Mode == ModeExam {
		sum.Passed = s.TotalCorrect >= ExamPassThreshold
	}

	// Topics in order of first appearance in the plan.
	seen := make(map[string]bool)
	for _, q := range s.Plan.Questions {
		if seen[q.TopicID] {
			continue
		}
		seen[q.TopicID] = true
		if tr, ok := s.PerTopic[q.TopicID]; ok {
			sum.Topics = append(sum.Topics, *tr)
		}
	}
	return sum
}

// Record converts the summary into a stats history entry.
func (s Summary) Record(at time.Time) stats.SessionRecord {
	topics := make([]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		topics = append(topics, t.TopicID)
	}
	return stats.SessionRecord{
		SessionID:      s.SessionID,
		Date:           at,
		Mode:           string(s.Mode),
		QuestionsAsked: s.Asked,
		CorrectAnswers: s.Correct,
		Topics:         stats.TopicsOf(topics),
		DurationSecs:   int(s.Duration.Round(time.Second) / time.Second),
		Passed:         s.Passed,
	}
}
