package mastery

import "time"

const (
	// MinConfidence and MaxConfidence bound Record.ConfidenceLevel.
	MinConfidence = 0
	MaxConfidence = 100

	// FirstCorrectConfidence is the confidence after a first correct answer.
	FirstCorrectConfidence = 10

	// ConfidenceStep is added on every later correct answer.
	ConfidenceStep = 10

	// RetryDelay is the review delay after any wrong answer.
	RetryDelay = 10 * time.Minute

	// FirstCorrectDelay is the review delay after a first correct answer.
	FirstCorrectDelay = 24 * time.Hour
)

// Record is the progress of one question. A question without a record has
// never been answered.
type Record struct {
	QuestionID      string    `json:"question_id"`
	CorrectCount    int       `json:"correct_count"`
	WrongCount      int       `json:"wrong_count"`
	LastAsked       time.Time `json:"last_asked"`
	NextReviewDate  time.Time `json:"next_review_date"`
	ConfidenceLevel int       `json:"confidence_level"`
}

// Progress maps question IDs to their records. Callers own it; nothing in
// this package or in the scheduler mutates it.
type Progress map[string]Record

// Lookup returns the record for a question, if any.
func (p Progress) Lookup(questionID string) (Record, bool) {
	r, ok := p[questionID]
	return r, ok
}

// Confidence returns the record's confidence clamped to [0, 100].
func (r Record) Confidence() int {
	return ClampConfidence(r.ConfidenceLevel)
}

// Attempts returns the total number of answers given.
func (r Record) Attempts() int {
	return max(0, r.CorrectCount) + max(0, r.WrongCount)
}

// Accuracy returns the share of correct answers, 0 when never answered.
func (r Record) Accuracy() float64 {
	n := r.Attempts()
	if n == 0 {
		return 0
	}
	return float64(max(0, r.CorrectCount)) / float64(n)
}

// ClampConfidence bounds c to [MinConfidence, MaxConfidence].
func ClampConfidence(c int) int {
	return min(MaxConfidence, max(MinConfidence, c))
}

// ReviewInterval returns the delay before the next review after a correct
// answer that brought the question to the given confidence: one day per
// ten points.
func ReviewInterval(confidence int) time.Duration {
	return time.Duration(ClampConfidence(confidence)) * 24 * time.Hour / 10
}

// NextReview computes the record that replaces prev after the learner
// answers questionID at now. prev is nil for a question never answered.
// The returned record is complete and prev is left untouched.
func NextReview(questionID string, prev *Record, correct bool, now time.Time) Record {
	if prev == nil {
		r := Record{
			QuestionID: questionID,
			LastAsked:  now,
		}
		if correct {
			r.CorrectCount = 1
			r.ConfidenceLevel = FirstCorrectConfidence
			r.NextReviewDate = now.Add(FirstCorrectDelay)
		} else {
			r.WrongCount = 1
			r.ConfidenceLevel = MinConfidence
			r.NextReviewDate = now.Add(RetryDelay)
		}
		return r
	}

	r := Record{
		QuestionID:   questionID,
		CorrectCount: max(0, prev.CorrectCount),
		WrongCount:   max(0, prev.WrongCount),
		LastAsked:    now,
	}
	conf := prev.Confidence()
	if correct {
		r.CorrectCount++
		r.ConfidenceLevel = ClampConfidence(conf + ConfidenceStep)
		r.NextReviewDate = now.Add(ReviewInterval(r.ConfidenceLevel))
	} else {
		r.WrongCount++
		// conf is non-negative, so integer division floors.
		r.ConfidenceLevel = ClampConfidence(conf / 2)
		r.NextReviewDate = now.Add(RetryDelay)
	}
	return r
}
