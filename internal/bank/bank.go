package bank

import (
	"fmt"
	"log/slog"
	"sort"
)

// Bank is an immutable, indexed question bank.
type Bank struct {
	topics    []Topic
	questions []Question
	byID      map[string]int
	topicByID map[string]int
	byTopic   map[string][]int
}

// New builds a Bank. Duplicate question or topic IDs keep the first
// occurrence. Questions that reference an undeclared topic get a
// synthesized topic named after the ID.
func New(topics []Topic, questions []Question) *Bank {
	b := &Bank{
		byID:      make(map[string]int, len(questions)),
		topicByID: make(map[string]int, len(topics)),
		byTopic:   make(map[string][]int),
	}

	for _, t := range topics {
		if _, dup := b.topicByID[t.ID]; dup {
			slog.Warn("duplicate topic id ignored", "topic_id", t.ID)
			continue
		}
		b.topicByID[t.ID] = len(b.topics)
		b.topics = append(b.topics, t)
	}

	for _, q := range questions {
		if _, dup := b.byID[q.ID]; dup {
			slog.Warn("duplicate question id ignored", "question_id", q.ID)
			continue
		}
		if _, ok := b.topicByID[q.TopicID]; !ok {
			b.topicByID[q.TopicID] = len(b.topics)
			b.topics = append(b.topics, Topic{ID: q.TopicID, Name: q.TopicID})
		}
		idx := len(b.questions)
		b.byID[q.ID] = idx
		b.byTopic[q.TopicID] = append(b.byTopic[q.TopicID], idx)
		b.questions = append(b.questions, q)
	}

	return b
}

// Questions returns all questions in load order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Topics returns all topics in declaration order.
func (b *Bank) Topics() []Topic {
	out := make([]Topic, len(b.topics))
	copy(out, b.topics)
	return out
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Question returns the question with the given ID.
func (b *Bank) Question(id string) (Question, error) {
	idx, ok := b.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, id)
	}
	return b.questions[idx], nil
}

// Topic returns the topic with the given ID.
func (b *Bank) Topic(id string) (Topic, error) {
	idx, ok := b.topicByID[id]
	if !ok {
		return Topic{}, fmt.Errorf("%w: %q", ErrTopicNotFound, id)
	}
	return b.topics[idx], nil
}

// ByTopic returns the questions of one topic in load order.
func (b *Bank) ByTopic(topicID string) []Question {
	idxs := b.byTopic[topicID]
	out := make([]Question, len(idxs))
	for i, idx := range idxs {
		out[i] = b.questions[idx]
	}
	return out
}

// TopicIDs returns all topic IDs sorted alphabetically.
func (b *Bank) TopicIDs() []string {
	ids := make([]string, 0, len(b.topics))
	for _, t := range b.topics {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}
