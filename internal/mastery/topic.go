package mastery

import (
	"math"
	"sort"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
)

// MasteredConfidence is the confidence at which a question counts as
// mastered for topic progress.
const MasteredConfidence = 50

// Dashboard band thresholds on topic percentage.
const (
	WeakBelow       = 50
	StrongAtOrAbove = 80
)

// Level classifies a topic's percentage.
type Level string

const (
	LevelWeak     Level = "weak"
	LevelLearning Level = "learning"
	LevelStrong   Level = "strong"
)

// TopicSummary is the progress of one topic.
type TopicSummary struct {
	TopicID    string
	Percentage int // mastered questions / total, rounded
	Answered   int // questions with a record
	Total      int
}

// Level returns the band for the summary's percentage.
func (s TopicSummary) Level() Level {
	return LevelFor(s.Percentage)
}

// LevelFor maps a percentage to its band.
func LevelFor(percentage int) Level {
	switch {
	case percentage >= StrongAtOrAbove:
		return LevelStrong
	case percentage < WeakBelow:
		return LevelWeak
	default:
		return LevelLearning
	}
}

// TopicProgress summarizes progress on the questions of topicID.
func TopicProgress(topicID string, questions []bank.Question, progress Progress) TopicSummary {
	s := TopicSummary{TopicID: topicID}
	mastered := 0
	for _, q := range questions {
		if q.TopicID != topicID {
			continue
		}
		s.Total++
		r, ok := progress[q.ID]
		if !ok {
			continue
		}
		s.Answered++
		if r.Confidence() >= MasteredConfidence {
			mastered++
		}
	}
	if s.Total == 0 {
		return s
	}
	s.Percentage = int(math.Round(float64(mastered) / float64(s.Total) * 100))
	return s
}

// AllTopics returns a summary per topic ID, sorted by topic ID.
func AllTopics(topicIDs []string, questions []bank.Question, progress Progress) []TopicSummary {
	out := make([]TopicSummary, 0, len(topicIDs))
	for _, id := range topicIDs {
		out = append(out, TopicProgress(id, questions, progress))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicID < out[j].TopicID })
	return out
}

// WeakTopics returns started topics below the weak threshold.
func WeakTopics(summaries []TopicSummary) []TopicSummary {
	var out []TopicSummary
	for _, s := range summaries {
		if s.Answered > 0 && s.Level() == LevelWeak {
			out = append(out, s)
		}
	}
	return out
}

// StrongTopics returns topics at or above the strong threshold.
func StrongTopics(summaries []TopicSummary) []TopicSummary {
	var out []TopicSummary
	for _, s := range summaries {
		if s.Level() == LevelStrong {
			out = append(out, s)
		}
	}
	return out
}
