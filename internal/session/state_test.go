package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testQuestions(topic string, n int) []bank.Question {
	qs := make([]bank.Question, n)
	for i := range qs {
		qs[i] = bank.Question{
			ID:           fmt.Sprintf("%s-%02d", topic, i),
			TopicID:      topic,
			Text:         "question",
			Options:      []string{"a", "b", "c"},
			CorrectIndex: 1,
			Explanation:  "because b",
		}
	}
	return qs
}

func testPlan(qs []bank.Question) *Plan {
	return &Plan{ID: "s1", Mode: ModePractice, Questions: qs, StartedAt: testNow}
}

func TestState_AnswerFirstTime(t *testing.T) {
	s := NewState(testPlan(testQuestions("a", 2)))

	res, err := s.Answer(1, nil, testNow)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !res.Correct {
		t.Error("Correct = false, want true")
	}
	if res.Record.ConfidenceLevel != mastery.FirstCorrectConfidence {
		t.Errorf("ConfidenceLevel = %d, want %d", res.Record.ConfidenceLevel, mastery.FirstCorrectConfidence)
	}
	if res.Explanation != "because b" || res.CorrectIndex != 1 {
		t.Errorf("Result = %+v", res)
	}
	if s.TotalCorrect != 1 {
		t.Errorf("TotalCorrect = %d, want 1", s.TotalCorrect)
	}
}

func TestState_AnswerWithHistory(t *testing.T) {
	s := NewState(testPlan(testQuestions("a", 1)))
	prev := &mastery.Record{QuestionID: "a-00", CorrectCount: 3, ConfidenceLevel: 40}

	res, err := s.Answer(0, prev, testNow)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if res.Correct {
		t.Error("Correct = true, want false")
	}
	if res.ConfidenceBefore != 40 {
		t.Errorf("ConfidenceBefore = %d, want 40", res.ConfidenceBefore)
	}
	if res.Record.ConfidenceLevel != 20 {
		t.Errorf("ConfidenceLevel = %d, want 20", res.Record.ConfidenceLevel)
	}
	if !res.Record.NextReviewDate.Equal(testNow.Add(mastery.RetryDelay)) {
		t.Errorf("NextReviewDate = %v", res.Record.NextReviewDate)
	}
	if prev.ConfidenceLevel != 40 {
		t.Error("Answer() mutated the previous record")
	}
}

func TestState_AnswerErrors(t *testing.T) {
	s := NewState(testPlan(testQuestions("a", 1)))

	if _, err := s.Answer(3, nil, testNow); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Answer(3) error = %v, want ErrInvalidChoice", err)
	}
	if _, err := s.Answer(-1, nil, testNow); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Answer(-1) error = %v, want ErrInvalidChoice", err)
	}
	if _, err := s.Answer(1, nil, testNow); err != nil {
		t.Fatalf("Answer(1) error = %v", err)
	}
	if _, err := s.Answer(1, nil, testNow); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("second Answer() error = %v, want ErrAlreadyAnswered", err)
	}
	if s.Next() {
		t.Error("Next() = true on last question")
	}
	if _, err := s.Answer(1, nil, testNow); !errors.Is(err, ErrSessionComplete) {
		t.Errorf("Answer() after done error = %v, want ErrSessionComplete", err)
	}
}

func TestState_NextRequiresAnswer(t *testing.T) {
	s := NewState(testPlan(testQuestions("a", 2)))

	if !s.Next() {
		t.Fatal("Next() = false with questions left")
	}
	if s.Index != 0 {
		t.Errorf("Index = %d, want 0 before answering", s.Index)
	}

	s.Answer(1, nil, testNow)
	s.Next()
	if s.Index != 1 || s.Remaining() != 1 {
		t.Errorf("Index = %d Remaining = %d, want 1 and 1", s.Index, s.Remaining())
	}
	if s.Answered() {
		t.Error("Answered() = true after Next()")
	}
}

func TestState_Expired(t *testing.T) {
	plan := testPlan(testQuestions("a", 1))
	s := NewState(plan)
	if s.Expired(testNow.Add(time.Hour)) {
		t.Error("untimed session expired")
	}

	plan.TimeLimit = ExamTimeLimit
	if s.Expired(testNow.Add(19 * time.Minute)) {
		t.Error("expired before the limit")
	}
	if !s.Expired(testNow.Add(20 * time.Minute)) {
		t.Error("not expired at the limit")
	}
	if got := s.TimeLeft(testNow.Add(5 * time.Minute)); got != 15*time.Minute {
		t.Errorf("TimeLeft() = %v, want 15m", got)
	}
	if got := s.TimeLeft(testNow.Add(time.Hour)); got != 0 {
		t.Errorf("TimeLeft() = %v, want 0", got)
	}
}

func TestSummary(t *testing.T) {
	qs := append(testQuestions("a", 2), testQuestions("b", 1)...)
	s := NewState(testPlan(qs))
	for _, choice := range []int{1, 0, 1} {
		if _, err := s.Answer(choice, nil, testNow); err != nil {
			t.Fatalf("Answer() error = %v", err)
		}
		s.Next()
	}

	sum := s.Summary(testNow.Add(90 * time.Second))
	if sum.Asked != 3 || sum.Correct != 2 || sum.Wrong != 1 {
		t.Errorf("Summary = %+v", sum)
	}
	if len(sum.Topics) != 2 || sum.Topics[0].TopicID != "a" || sum.Topics[0].Correct != 1 {
		t.Errorf("Topics = %+v", sum.Topics)
	}
	if sum.Passed {
		t.Error("practice session marked passed")
	}

	rec := sum.Record(testNow)
	if rec.DurationSecs != 90 || rec.QuestionsAsked != 3 || len(rec.Topics) != 2 {
		t.Errorf("Record() = %+v", rec)
	}
}

func TestSummary_ExamPass(t *testing.T) {
	tests := []struct {
		correct int
		want    bool
	}{
		{17, false},
		{18, true},
		{20, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-correct", tt.correct), func(t *testing.T) {
			plan := testPlan(testQuestions("a", ExamQuestionCount))
			plan.Mode = ModeExam
			s := NewState(plan)
			for i := range ExamQuestionCount {
				choice := 0
				if i < tt.correct {
					choice = 1
				}
				s.Answer(choice, nil, testNow)
				s.Next()
			}
			if got := s.Summary(testNow).Passed; got != tt.want {
				t.Errorf("Passed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanner_BuildPlan(t *testing.T) {
	qs := append(testQuestions("a", 8), testQuestions("b", 30)...)
	sel := spacedrep.NewSelector(fixedClock(testNow), rand.New(rand.NewPCG(1, 2)))
	p := NewPlanner(qs, sel)

	plan, err := p.BuildPlan(Config{Mode: ModePractice, Count: 5, TopicID: "a"}, nil)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan.Questions) != 5 || plan.ID == "" || plan.TimeLimit != 0 {
		t.Errorf("plan = %+v", plan)
	}
	for _, q := range plan.Questions {
		if q.TopicID != "a" {
			t.Errorf("question %s from topic %s", q.ID, q.TopicID)
		}
	}

	exam, err := p.BuildPlan(Config{Mode: ModeExam, Count: 3, TopicID: "a"}, nil)
	if err != nil {
		t.Fatalf("BuildPlan(exam) error = %v", err)
	}
	if len(exam.Questions) != ExamQuestionCount || exam.TopicID != "" || exam.TimeLimit != ExamTimeLimit {
		t.Errorf("exam plan: %d questions, topic %q, limit %v", len(exam.Questions), exam.TopicID, exam.TimeLimit)
	}
	if !exam.StartedAt.Equal(testNow) {
		t.Errorf("StartedAt = %v, want %v", exam.StartedAt, testNow)
	}

	if _, err := p.BuildPlan(Config{Mode: ModePractice, Count: 5, TopicID: "missing"}, nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("unknown topic error = %v, want ErrNoQuestions", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("exam"); err != nil || m != ModeExam {
		t.Errorf("ParseMode(exam) = %q, %v", m, err)
	}
	if _, err := ParseMode("quiz"); err == nil {
		t.Error("ParseMode(quiz) error = nil")
	}
}

func TestState_GradeLeavesStateUntilCommit(t *testing.T) {
	s := NewState(testPlan(testQuestions("a", 2)))

	res, err := s.Grade(1, nil, testNow)
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if s.Answered() || len(s.Answers) != 0 || s.TotalCorrect != 0 || len(s.PerTopic) != 0 {
		t.Fatalf("Grade() changed the session: answered=%v answers=%d", s.Answered(), len(s.Answers))
	}
	if _, err := s.Grade(0, nil, testNow); err != nil {
		t.Errorf("second Grade() error = %v, want nil before Commit", err)
	}

	s.Commit(res)
	if !s.Answered() || s.TotalCorrect != 1 || s.PerTopic["a"].Attempted != 1 {
		t.Errorf("after Commit: answered=%v correct=%d", s.Answered(), s.TotalCorrect)
	}
	if _, err := s.Grade(1, nil, testNow); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("Grade() after Commit error = %v, want ErrAlreadyAnswered", err)
	}
}
