package spacedrep

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

// OversampleFactor sets the shortlist size as a multiple of the requested
// count. The shortlist is shuffled so sessions vary while staying biased
// toward urgent questions.
const OversampleFactor = 2

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Scored is a candidate question with its priority.
type Scored struct {
	Question bank.Question
	Priority float64
}

// Rank filters questions to topicID (all topics when empty), scores each
// one at now and sorts by descending priority, breaking ties by ascending
// question ID. Duplicate IDs keep their first occurrence.
func Rank(questions []bank.Question, progress mastery.Progress, topicID string, now time.Time) []Scored {
	seen := make(map[string]bool, len(questions))
	ranked := make([]Scored, 0, len(questions))
	for _, q := range questions {
		if topicID != "" && q.TopicID != topicID {
			continue
		}
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		ranked = append(ranked, Scored{Question: q, Priority: Priority(q, progress, now)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		return ranked[i].Question.ID < ranked[j].Question.ID
	})
	return ranked
}

// SelectSessionAt picks up to count questions for a session at now. The
// top min(2*count, pool) ranked questions are shuffled with rng and the
// first count returned. A nil rng uses the process-wide generator.
func SelectSessionAt(questions []bank.Question, progress mastery.Progress, count int, topicID string, now time.Time, rng Shuffler) []bank.Question {
	if count <= 0 {
		return []bank.Question{}
	}
	ranked := Rank(questions, progress, topicID, now)

	shortlist := ranked[:min(count*OversampleFactor, len(ranked))]
	if rng == nil {
		rng = globalShuffler{}
	}
	rng.Shuffle(len(shortlist), func(i, j int) {
		shortlist[i], shortlist[j] = shortlist[j], shortlist[i]
	})

	n := min(count, len(shortlist))
	out := make([]bank.Question, n)
	for i := range n {
		out[i] = shortlist[i].Question
	}
	return out
}

// SelectSession is SelectSessionAt with the current time.
func SelectSession(questions []bank.Question, progress mastery.Progress, count int, topicID string, rng Shuffler) []bank.Question {
	return SelectSessionAt(questions, progress, count, topicID, time.Now(), rng)
}

// Selector bundles the clock and randomness used for session selection so
// callers can substitute both.
type Selector struct {
	now func() time.Time
	rng Shuffler
}

// NewSelector creates a selector. A nil clock uses time.Now and a nil rng
// uses the process-wide generator.
func NewSelector(clock func() time.Time, rng Shuffler) *Selector {
	if clock == nil {
		clock = time.Now
	}
	if rng == nil {
		rng = globalShuffler{}
	}
	return &Selector{now: clock, rng: rng}
}

// Now returns the selector's current time.
func (s *Selector) Now() time.Time {
	return s.now()
}

// Select picks questions for a session. The clock is read once.
func (s *Selector) Select(questions []bank.Question, progress mastery.Progress, count int, topicID string) []bank.Question {
	return SelectSessionAt(questions, progress, count, topicID, s.now(), s.rng)
}
