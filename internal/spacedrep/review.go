package spacedrep

import (
	"sort"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

// OverdueAfter is how long past its review date a question must be before
// it is reported as overdue rather than due.
const OverdueAfter = 24 * time.Hour

// MasteredConfidence is the confidence at which a question that is not
// due is reported as mastered.
const MasteredConfidence = 80

// IsDue returns true if the question is due for review (at or past the
// review date).
func IsDue(r mastery.Record, now time.Time) bool {
	return !now.Before(r.NextReviewDate)
}

// HoursOverdue returns how many hours past due the question is. Returns 0
// if not yet due.
func HoursOverdue(r mastery.Record, now time.Time) float64 {
	if now.Before(r.NextReviewDate) {
		return 0
	}
	return now.Sub(r.NextReviewDate).Hours()
}

// ReviewStatus describes a question's review status for display.
type ReviewStatus string

const (
	StatusUnseen   ReviewStatus = "unseen"
	StatusLearning ReviewStatus = "learning"
	StatusDue      ReviewStatus = "due"
	StatusOverdue  ReviewStatus = "overdue"
	StatusMastered ReviewStatus = "mastered"
)

// Status returns the review status of questionID.
func Status(questionID string, progress mastery.Progress, now time.Time) ReviewStatus {
	r, ok := progress[questionID]
	if !ok {
		return StatusUnseen
	}
	switch {
	case IsDue(r, now) && now.Sub(r.NextReviewDate) >= OverdueAfter:
		return StatusOverdue
	case IsDue(r, now):
		return StatusDue
	case r.Confidence() >= MasteredConfidence:
		return StatusMastered
	default:
		return StatusLearning
	}
}

// DueQuestions returns the IDs of questions due for review, most overdue
// first.
func DueQuestions(progress mastery.Progress, now time.Time) []string {
	type dueQuestion struct {
		id      string
		overdue float64
	}
	var due []dueQuestion

	for id, r := range progress {
		if IsDue(r, now) {
			due = append(due, dueQuestion{id: id, overdue: HoursOverdue(r, now)})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].overdue != due[j].overdue {
			return due[i].overdue > due[j].overdue
		}
		return due[i].id < due[j].id
	})

	ids := make([]string, len(due))
	for i, d := range due {
		ids[i] = d.id
	}
	return ids
}

// Forecast counts reviews falling due on each of the next days days.
// Index 0 covers the next 24 hours and includes everything already due.
func Forecast(progress mastery.Progress, now time.Time, days int) []int {
	if days <= 0 {
		return []int{}
	}
	counts := make([]int, days)
	for _, r := range progress {
		day := 0
		if d := r.NextReviewDate.Sub(now); d > 0 {
			day = int(d / (24 * time.Hour))
		}
		if day < days {
			counts[day]++
		}
	}
	return counts
}
