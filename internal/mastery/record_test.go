package mastery

import (
	"testing"
	"time"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNextReview_FirstCorrect(t *testing.T) {
	r := NextReview("q1", nil, true, now)

	if r.QuestionID != "q1" {
		t.Errorf("QuestionID = %q, want q1", r.QuestionID)
	}
	if r.ConfidenceLevel != 10 {
		t.Errorf("ConfidenceLevel = %d, want 10", r.ConfidenceLevel)
	}
	if r.CorrectCount != 1 || r.WrongCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", r.CorrectCount, r.WrongCount)
	}
	if want := now.Add(24 * time.Hour); !r.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", r.NextReviewDate, want)
	}
	if !r.LastAsked.Equal(now) {
		t.Errorf("LastAsked = %v, want %v", r.LastAsked, now)
	}
}

func TestNextReview_FirstWrong(t *testing.T) {
	r := NextReview("q1", nil, false, now)

	if r.ConfidenceLevel != 0 {
		t.Errorf("ConfidenceLevel = %d, want 0", r.ConfidenceLevel)
	}
	if r.CorrectCount != 0 || r.WrongCount != 1 {
		t.Errorf("counts = %d/%d, want 0/1", r.CorrectCount, r.WrongCount)
	}
	if want := now.Add(10 * time.Minute); !r.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", r.NextReviewDate, want)
	}
}

func TestNextReview_WithHistory(t *testing.T) {
	tests := []struct {
		name     string
		prevConf int
		correct  bool
		wantConf int
		wantNext time.Duration
	}{
		{"correct from 0", 0, true, 10, 24 * time.Hour},
		{"correct from 40", 40, true, 50, 5 * 24 * time.Hour},
		{"correct from 15", 15, true, 25, 60 * time.Hour},
		{"correct from 90 saturates", 90, true, 100, 10 * 24 * time.Hour},
		{"correct at 100 stays", 100, true, 100, 10 * 24 * time.Hour},
		{"wrong from 80 halves", 80, false, 40, 10 * time.Minute},
		{"wrong from 15 floors", 15, false, 7, 10 * time.Minute},
		{"wrong from 1", 1, false, 0, 10 * time.Minute},
		{"wrong from 0", 0, false, 0, 10 * time.Minute},
		{"corrupted high clamps before use", 250, true, 100, 10 * 24 * time.Hour},
		{"corrupted negative clamps before use", -30, false, 0, 10 * time.Minute},
		{"corrupted negative correct", -30, true, 10, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := &Record{
				QuestionID:      "q1",
				CorrectCount:    3,
				WrongCount:      2,
				LastAsked:       now.Add(-48 * time.Hour),
				NextReviewDate:  now.Add(-time.Hour),
				ConfidenceLevel: tt.prevConf,
			}
			r := NextReview("q1", prev, tt.correct, now)

			if r.ConfidenceLevel != tt.wantConf {
				t.Errorf("ConfidenceLevel = %d, want %d", r.ConfidenceLevel, tt.wantConf)
			}
			if got := r.NextReviewDate.Sub(now); got != tt.wantNext {
				t.Errorf("interval = %v, want %v", got, tt.wantNext)
			}
			wantCorrect, wantWrong := 3, 2
			if tt.correct {
				wantCorrect++
			} else {
				wantWrong++
			}
			if r.CorrectCount != wantCorrect || r.WrongCount != wantWrong {
				t.Errorf("counts = %d/%d, want %d/%d", r.CorrectCount, r.WrongCount, wantCorrect, wantWrong)
			}
			if prev.ConfidenceLevel != tt.prevConf {
				t.Errorf("prev mutated: ConfidenceLevel = %d", prev.ConfidenceLevel)
			}
		})
	}
}

func TestNextReview_NegativeCountersNeverDecrease(t *testing.T) {
	prev := &Record{QuestionID: "q1", CorrectCount: -5, WrongCount: -2, ConfidenceLevel: 20}
	r := NextReview("q1", prev, true, now)
	if r.CorrectCount != 1 || r.WrongCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", r.CorrectCount, r.WrongCount)
	}
}

func TestNextReview_CorrectSequence(t *testing.T) {
	var prev *Record
	at := now
	lastConf := -1
	for i := 0; i < 15; i++ {
		r := NextReview("q1", prev, true, at)
		if r.ConfidenceLevel < lastConf {
			t.Fatalf("step %d: confidence decreased %d -> %d", i, lastConf, r.ConfidenceLevel)
		}
		if r.ConfidenceLevel < 0 || r.ConfidenceLevel > 100 {
			t.Fatalf("step %d: confidence %d out of range", i, r.ConfidenceLevel)
		}
		if prev != nil {
			wantDays := float64(r.ConfidenceLevel) / 10
			gotDays := r.NextReviewDate.Sub(at).Hours() / 24
			if gotDays != wantDays {
				t.Errorf("step %d: interval = %v days, want %v", i, gotDays, wantDays)
			}
		}
		lastConf = r.ConfidenceLevel
		prev = &r
		at = r.NextReviewDate
	}
	if lastConf != 100 {
		t.Errorf("final confidence = %d, want 100", lastConf)
	}
}

func TestNextReview_WrongAlwaysTenMinutes(t *testing.T) {
	for conf := -10; conf <= 110; conf += 5 {
		prev := &Record{QuestionID: "q", ConfidenceLevel: conf}
		r := NextReview("q", prev, false, now)
		if got := r.NextReviewDate.Sub(now); got != 10*time.Minute {
			t.Errorf("conf %d: interval = %v, want 10m", conf, got)
		}
		if r.ConfidenceLevel < 0 || r.ConfidenceLevel > 100 {
			t.Errorf("conf %d: result %d out of range", conf, r.ConfidenceLevel)
		}
	}
}

func TestRecord_Accuracy(t *testing.T) {
	tests := []struct {
		r    Record
		want float64
	}{
		{Record{}, 0},
		{Record{CorrectCount: 3, WrongCount: 1}, 0.75},
		{Record{CorrectCount: 2, WrongCount: -4}, 1},
	}
	for _, tt := range tests {
		if got := tt.r.Accuracy(); got != tt.want {
			t.Errorf("Accuracy(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 0}, {0, 0}, {55, 55}, {100, 100}, {101, 100},
	}
	for _, tt := range tests {
		if got := ClampConfidence(tt.in); got != tt.want {
			t.Errorf("ClampConfidence(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
