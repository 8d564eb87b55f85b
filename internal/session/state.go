package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

var (
	// ErrSessionComplete is returned when answering past the last question.
	ErrSessionComplete = errors.New("session complete")

	// ErrAlreadyAnswered is returned when the current question was
	// already answered.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrInvalidChoice is returned for an option index outside the
	// question's options.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Result is the outcome of one answer.
type Result struct {
	Question         bank.Question
	Chosen           int
	Correct          bool
	CorrectIndex     int
	Explanation      string
	ConfidenceBefore int
	// Record replaces the question's progress record. The caller persists
	// it before the next question is shown.
	Record mastery.Record
}

// TopicResult tracks per-topic performance within a single session.
type TopicResult struct {
	TopicID   string
	Attempted int
	Correct   int
}

// State tracks the runtime state of an active session.
type State struct {
	// Plan is the session plan built at start.
	Plan *Plan

	// Index is the position of the current question in Plan.Questions.
	Index int

	// Answers holds the result of every answered question in order.
	Answers []Result

	// TotalCorrect is the count of correct answers so far.
	TotalCorrect int

	// PerTopic tracks per-topic stats for the summary.
	PerTopic map[string]*TopicResult

	answered bool
}

// NewState creates the state for a planned session.
func NewState(plan *Plan) *State {
	return &State{
		Plan:     plan,
		PerTopic: make(map[string]*TopicResult),
	}
}

// Current returns the question being asked. ok is false once the session
// is done.
func (s *State) Current() (q bank.Question, ok bool) {
	if s.Done() {
		return bank.Question{}, false
	}
	return s.Plan.Questions[s.Index], true
}

// Answered reports whether the current question has been answered.
func (s *State) Answered() bool {
	return s.answered
}

// Answer grades choice for the current question and commits the result.
// prev is the question's existing progress record, nil if it was never
// answered.
func (s *State) Answer(choice int, prev *mastery.Record, now time.Time) (Result, error) {
	res, err := s.Grade(choice, prev, now)
	if err != nil {
		return Result{}, err
	}
	s.Commit(res)
	return res, nil
}

// Grade computes the result of answering the current question with choice
// without changing the session.
func (s *State) Grade(choice int, prev *mastery.Record, now time.Time) (Result, error) {
	q, ok := s.Current()
	if !ok {
		return Result{}, ErrSessionComplete
	}
	if s.answered {
		return Result{}, ErrAlreadyAnswered
	}
	if choice < 0 || choice >= len(q.Options) {
		return Result{}, fmt.Errorf("%w: %d (question has %d options)", ErrInvalidChoice, choice, len(q.Options))
	}

	correct := q.IsCorrect(choice)
	res := Result{
		Question:     q,
		Chosen:       choice,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Record:       mastery.NextReview(q.ID, prev, correct, now),
	}
	if prev != nil {
		res.ConfidenceBefore = prev.Confidence()
	}
	return res, nil
}

// Commit marks the current question answered with a result from Grade.
func (s *State) Commit(res Result) {
	s.answered = true
	s.Answers = append(s.Answers, res)
	if res.Correct {
		s.TotalCorrect++
	}

	topicID := res.Question.TopicID
	tr := s.PerTopic[topicID]
	if tr == nil {
		tr = &TopicResult{TopicID: topicID}
		s.PerTopic[topicID] = tr
	}
	tr.Attempted++
	if res.Correct {
		tr.Correct++
	}
}

// Next moves past the current question if it has been answered. It
// reports whether another question is available.
func (s *State) Next() bool {
	if s.Done() {
		return false
	}
	if s.answered {
		s.Index++
		s.answered = false
	}
	return !s.Done()
}

// Done reports whether every planned question has been passed.
func (s *State) Done() bool {
	return s.Index >= len(s.Plan.Questions)
}

// Remaining returns how many questions are left including the current one.
func (s *State) Remaining() int {
	return max(0, len(s.Plan.Questions)-s.Index)
}

// Expired reports whether a timed session has run out of time.
func (s *State) Expired(now time.Time) bool {
	if s.Plan.TimeLimit <= 0 {
		return false
	}
	return now.Sub(s.Plan.StartedAt) >= s.Plan.TimeLimit
}

// TimeLeft returns the remaining time of a timed session, 0 when untimed
// or expired.
func (s *State) TimeLeft(now time.Time) time.Duration {
	if s.Plan.TimeLimit <= 0 {
		return 0
	}
	return max(0, s.Plan.TimeLimit-now.Sub(s.Plan.StartedAt))
}
