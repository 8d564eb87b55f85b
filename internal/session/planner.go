package session

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
)

// ErrNoQuestions is returned when the filtered pool is empty.
var ErrNoQuestions = errors.New("no questions available")

// Planner builds session plans from a question pool.
type Planner struct {
	questions []bank.Question
	selector  *spacedrep.Selector
}

// NewPlanner creates a planner over questions. A nil selector uses the
// wall clock and the process-wide generator.
func NewPlanner(questions []bank.Question, selector *spacedrep.Selector) *Planner {
	if selector == nil {
		selector = spacedrep.NewSelector(nil, nil)
	}
	return &Planner{questions: questions, selector: selector}
}

// BuildPlan selects the questions for a session. Exam plans always use 20
// questions from the whole bank with a 20 minute limit.
func (p *Planner) BuildPlan(cfg Config, progress mastery.Progress) (*Plan, error) {
	plan := &Plan{
		ID:      uuid.New().String(),
		Mode:    cfg.Mode,
		TopicID: cfg.TopicID,
	}

	count := cfg.Count
	if cfg.Mode == ModeExam {
		count = ExamQuestionCount
		plan.TopicID = ""
		plan.TimeLimit = ExamTimeLimit
	}

	plan.StartedAt = p.selector.Now()
	plan.Questions = p.selector.Select(p.questions, progress, count, plan.TopicID)
	if len(plan.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return plan, nil
}
