package mastery

import (
	"fmt"
	"sort"
	"time"
)

// RecordData is the persisted form of a Record. Timestamps are RFC3339
// strings with sub-second precision so a corrupted value can be detected
// on load.
type RecordData struct {
	QuestionID      string `json:"question_id"`
	CorrectCount    int    `json:"correct_count"`
	WrongCount      int    `json:"wrong_count"`
	LastAsked       string `json:"last_asked"`
	NextReviewDate  string `json:"next_review_date"`
	ConfidenceLevel int    `json:"confidence_level"`
}

// Data exports the record for persistence.
func (r Record) Data() RecordData {
	return RecordData{
		QuestionID:      r.QuestionID,
		CorrectCount:    r.CorrectCount,
		WrongCount:      r.WrongCount,
		LastAsked:       r.LastAsked.UTC().Format(time.RFC3339Nano),
		NextReviewDate:  r.NextReviewDate.UTC().Format(time.RFC3339Nano),
		ConfidenceLevel: r.ConfidenceLevel,
	}
}

// FromData decodes a persisted record. Counters and confidence are
// normalized; an unparsable timestamp is an error.
func FromData(d RecordData) (Record, error) {
	if d.QuestionID == "" {
		return Record{}, fmt.Errorf("record has empty question id")
	}
	next, err := time.Parse(time.RFC3339, d.NextReviewDate)
	if err != nil {
		return Record{}, fmt.Errorf("parse next review date of %q: %w", d.QuestionID, err)
	}
	last, err := time.Parse(time.RFC3339, d.LastAsked)
	if err != nil {
		return Record{}, fmt.Errorf("parse last asked of %q: %w", d.QuestionID, err)
	}
	return Record{
		QuestionID:      d.QuestionID,
		CorrectCount:    max(0, d.CorrectCount),
		WrongCount:      max(0, d.WrongCount),
		LastAsked:       last,
		NextReviewDate:  next,
		ConfidenceLevel: ClampConfidence(d.ConfidenceLevel),
	}, nil
}

// LoadProgress decodes persisted records. Records that fail to decode are
// left out, so their questions count as unseen, and their errors are
// returned for logging.
func LoadProgress(data []RecordData) (Progress, []error) {
	p := make(Progress, len(data))
	var errs []error
	for _, d := range data {
		r, err := FromData(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p[r.QuestionID] = r
	}
	return p, errs
}

// ExportProgress returns the persisted form of every record, sorted by
// question ID.
func ExportProgress(p Progress) []RecordData {
	out := make([]RecordData, 0, len(p))
	for _, r := range p {
		out = append(out, r.Data())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}
