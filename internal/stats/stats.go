package stats

import (
	"slices"
	"time"
)

// MaxHistory is the number of session records kept, newest first.
const MaxHistory = 50

// DateLayout is the layout of Stats.LastActiveDate.
const DateLayout = "2006-01-02"

// SessionRecord is one finished session in the learner's history.
type SessionRecord struct {
	SessionID      string    `json:"session_id"`
	Date           time.Time `json:"date"`
	Mode           string    `json:"mode"`
	QuestionsAsked int       `json:"questions_asked"`
	CorrectAnswers int       `json:"correct_answers"`
	Topics         []string  `json:"topics"`
	DurationSecs   int       `json:"duration_secs"`
	Passed         bool      `json:"passed,omitempty"`
}

// Stats are the learner's lifetime statistics.
type Stats struct {
	TotalQuestions int             `json:"total_questions"`
	CorrectAnswers int             `json:"correct_answers"`
	StreakDays     int             `json:"streak_days"`
	LastActiveDate string          `json:"last_active_date,omitempty"`
	Sessions       []SessionRecord `json:"sessions"`
}

// CorrectRate returns the percentage of correct answers, 0 when nothing
// has been answered.
func (s Stats) CorrectRate() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
}

// Apply folds a finished session into s and returns the result. s is not
// modified.
//
// The streak is unchanged for a second session on the same day, grows by
// one when the previous active day was yesterday and restarts at 1
// otherwise. Days are calendar days in now's location.
func Apply(s Stats, rec SessionRecord, now time.Time) Stats {
	out := Stats{
		TotalQuestions: s.TotalQuestions + rec.QuestionsAsked,
		CorrectAnswers: s.CorrectAnswers + rec.CorrectAnswers,
		StreakDays:     s.StreakDays,
		LastActiveDate: now.Format(DateLayout),
	}

	today := now.Format(DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)
	switch s.LastActiveDate {
	case today:
		if out.StreakDays == 0 {
			out.StreakDays = 1
		}
	case yesterday:
		out.StreakDays++
	default:
		out.StreakDays = 1
	}

	history := make([]SessionRecord, 0, min(len(s.Sessions)+1, MaxHistory))
	history = append(history, rec)
	history = append(history, s.Sessions[:min(len(s.Sessions), MaxHistory-1)]...)
	out.Sessions = history
	return out
}

// TopicsOf returns the distinct topic IDs of a session in first-seen order.
func TopicsOf(topicIDs []string) []string {
	var out []string
	for _, id := range topicIDs {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
