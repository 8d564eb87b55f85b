package spacedrep

import (
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

const (
	// UnseenPriority is the score of a question that has no record.
	UnseenPriority = 100.0

	// DueBasePriority is the floor score of a due question.
	DueBasePriority = 50.0

	// MaxOverdueBonus caps the hours-overdue bonus so a due question never
	// outranks an unseen one.
	MaxOverdueBonus = 50.0
)

// Priority scores how urgently q should be asked. Higher is more urgent.
//
// Unseen questions score 100. Due questions score 50 plus the hours they
// are overdue, capped at 100. Questions not yet due score 100 minus their
// confidence.
func Priority(q bank.Question, progress mastery.Progress, now time.Time) float64 {
	r, ok := progress[q.ID]
	if !ok {
		return UnseenPriority
	}
	if IsDue(r, now) {
		return DueBasePriority + min(MaxOverdueBonus, HoursOverdue(r, now))
	}
	return float64(mastery.MaxConfidence - r.Confidence())
}
