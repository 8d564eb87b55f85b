package bank

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrTopicNotFound    = errors.New("topic not found")
)

// Topic groups questions for topic-scoped sessions.
type Topic struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Question is a single multiple-choice exam question. Questions are
// immutable once loaded; the scheduler only looks at ID and TopicID.
type Question struct {
	ID           string   `yaml:"id" json:"id"`
	TopicID      string   `yaml:"topic_id" json:"topic_id"`
	Text         string   `yaml:"text" json:"text"`
	Options      []string `yaml:"options" json:"options"`
	CorrectIndex int      `yaml:"correct_index" json:"correct_index"`
	Explanation  string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// IsCorrect reports whether choice (0-based option index) is the right answer.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}
