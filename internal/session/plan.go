package session

import (
	"fmt"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
)

// Mode is the kind of session.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

// Exam rules.
const (
	ExamQuestionCount = 20
	ExamTimeLimit     = 20 * time.Minute
	ExamPassThreshold = 18
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePractice, ModeExam:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown session mode %q", s)
}

// Config describes the session to plan.
type Config struct {
	Mode    Mode
	Count   int    // ignored in exam mode
	TopicID string // empty for all topics; ignored in exam mode
}

// Plan is the ordered list of questions for one session.
type Plan struct {
	ID        string
	Mode      Mode
	TopicID   string
	Questions []bank.Question
	StartedAt time.Time
	TimeLimit time.Duration // 0 means untimed
}
