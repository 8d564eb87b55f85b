package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{progressTable, answerTable, sessionTable, llmRequestTable, snapshotTable, kvTable} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	first := mastery.NextReview("q1", nil, true, testNow)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, mastery.NextReview("q2", nil, false, testNow)))

	second := mastery.NextReview("q1", &first, true, testNow.Add(24*time.Hour))
	require.NoError(t, repo.Save(ctx, second))

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, p, 2)

	got := p["q1"]
	assert.Equal(t, 2, got.CorrectCount)
	assert.Equal(t, 20, got.ConfidenceLevel)
	assert.True(t, got.NextReviewDate.Equal(second.NextReviewDate))
	assert.True(t, got.LastAsked.Equal(second.LastAsked))
	assert.Equal(t, 1, p["q2"].WrongCount)
}

func TestProgressLoadSkipsCorruptedTimestamps(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mastery.NextReview("good", nil, true, testNow)))
	_, err := s.DB().Exec(
		`INSERT INTO progress_records (question_id, correct_count, wrong_count, last_asked, next_review_date, confidence_level, updated_at)
		 VALUES ('bad', 1, 0, ?, 'garbage', 500, ?)`,
		testNow.Format(time.RFC3339), testNow,
	)
	require.NoError(t, err)

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, p, 1)
	_, ok := p["bad"]
	assert.False(t, ok, "corrupted record should be treated as unseen")
}

func TestProgressReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mastery.NextReview("q1", nil, true, testNow)))
	require.NoError(t, repo.Reset(ctx))

	p, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Nil(t, snap)

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		Data: SnapshotData{
			Version:  1,
			Progress: []mastery.RecordData{mastery.NextReview("q1", nil, true, testNow).Data()},
		},
	})
	require.NoError(t, err)

	snap, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(42), snap.Sequence)
	assert.Equal(t, 1, snap.Data.Version)
	require.Len(t, snap.Data.Progress, 1)
	assert.Equal(t, "q1", snap.Data.Progress[0].QuestionID)
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: i + 1},
		})
		require.NoError(t, err)
	}

	snap, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.Sequence)
	assert.Equal(t, 3, snap.Data.Version)
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			Sequence:  int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: 1},
		})
		require.NoError(t, err)
	}

	require.NoError(t, repo.Prune(ctx, 5))
	assert.Equal(t, 5, countRows(t, s, snapshotTable))

	snap, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.Sequence)

	// Fewer than keep is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	assert.Equal(t, 5, countRows(t, s, snapshotTable))
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}
	cur, err := sc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cur)
}

func TestEventsSharedSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: ActionStart, Mode: "practice"}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{
		SessionID: "s1", QuestionID: "q1", TopicID: "signs",
		ChosenIndex: 1, CorrectIndex: 1, Correct: true, ConfidenceBefore: 0, ConfidenceAfter: 10,
	}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{
		SessionID: "s1", QuestionID: "q2", TopicID: "signs", ChosenIndex: 0, CorrectIndex: 2,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Purpose: "explanation", Success: true}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: ActionEnd, Mode: "practice", QuestionsServed: 2, CorrectAnswers: 1, DurationSecs: 30,
	}))

	answers, err := repo.QueryAnswerEvents(ctx, QueryOpts{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "q2", answers[0].QuestionID, "newest first")
	assert.Equal(t, int64(3), answers[0].Sequence)
	assert.Equal(t, int64(2), answers[1].Sequence)
	assert.True(t, answers[1].Correct)
	assert.False(t, answers[1].Timestamp.IsZero())

	limited, err := repo.QueryAnswerEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	sessions, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].SessionID)
	assert.Equal(t, 2, sessions[0].QuestionsServed)
	assert.Equal(t, 1, sessions[0].CorrectAnswers)

	llmEvents, err := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "ignored"})
	require.NoError(t, err)
	require.Len(t, llmEvents, 1)
	assert.Equal(t, int64(4), llmEvents[0].Sequence)
	assert.Equal(t, "explanation", llmEvents[0].Purpose)
	assert.True(t, llmEvents[0].Success)
}

func TestStatsAndSettings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	st, err := s.StatsRepo().LoadStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.TotalQuestions)

	want := stats.Apply(stats.Stats{}, stats.SessionRecord{SessionID: "s1", QuestionsAsked: 10, CorrectAnswers: 8}, testNow)
	require.NoError(t, s.StatsRepo().SaveStats(ctx, want))
	got, err := s.StatsRepo().LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalQuestions)
	assert.Equal(t, 1, got.StreakDays)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "s1", got.Sessions[0].SessionID)

	cfg, err := s.SettingsRepo().LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), cfg)

	cfg.QuestionsPerSession = 30
	cfg.SoundEnabled = false
	require.NoError(t, s.SettingsRepo().SaveSettings(ctx, cfg))
	loaded, err := s.SettingsRepo().LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	cfg.QuestionsPerSession = 25
	assert.ErrorIs(t, s.SettingsRepo().SaveSettings(ctx, cfg), settings.ErrInvalidQuestionsPerSession)
}

func TestResetSnapshotsThenClears(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	progress := s.ProgressRepo()

	require.NoError(t, progress.Save(ctx, mastery.NextReview("q1", nil, true, testNow)))
	require.NoError(t, s.StatsRepo().SaveStats(ctx, stats.Stats{TotalQuestions: 3, CorrectAnswers: 2}))
	cfg := settings.Default()
	cfg.QuestionsPerSession = 20
	require.NoError(t, s.SettingsRepo().SaveSettings(ctx, cfg))

	require.NoError(t, Reset(ctx, progress, s.StatsRepo(), s.SnapshotRepo(), testNow))

	p, err := progress.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, p)
	st, err := s.StatsRepo().LoadStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.TotalQuestions)
	loaded, err := s.SettingsRepo().LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.QuestionsPerSession)

	snap, err := s.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "reset", snap.Data.Reason)
	require.Len(t, snap.Data.Progress, 1)
	require.NotNil(t, snap.Data.Stats)
	assert.Equal(t, 3, snap.Data.Stats.TotalQuestions)

	require.NoError(t, Restore(ctx, snap, progress, s.StatsRepo()))
	p, err = progress.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, p, 1)
}

func TestRestoreRollsBackOnFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	progress := s.ProgressRepo()

	current := mastery.NextReview("current", nil, true, testNow)
	require.NoError(t, progress.Save(ctx, current))

	_, err := s.DB().ExecContext(ctx, `CREATE TRIGGER reject_broken BEFORE INSERT ON progress_records
		WHEN NEW.question_id = 'broken' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	snap := &Snapshot{Data: SnapshotData{Progress: []mastery.RecordData{
		mastery.NextReview("a", nil, true, testNow).Data(),
		mastery.NextReview("broken", nil, false, testNow).Data(),
		mastery.NextReview("b", nil, true, testNow).Data(),
	}}}
	err = Restore(ctx, snap, progress, s.StatsRepo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore progress")

	p, err := progress.Load(ctx)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, current.ConfidenceLevel, p["current"].ConfidenceLevel)
}

// plainProgress has no Replace, so Restore falls back to Reset and Save.
type plainProgress struct {
	saved   mastery.Progress
	saveErr error
}

func (f *plainProgress) Load(context.Context) (mastery.Progress, error) { return f.saved, nil }
func (f *plainProgress) Reset(context.Context) error {
	f.saved = mastery.Progress{}
	return nil
}

func (f *plainProgress) Save(_ context.Context, r mastery.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[r.QuestionID] = r
	return nil
}

func TestRestoreWithoutReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	snap := &Snapshot{Data: SnapshotData{Progress: []mastery.RecordData{
		mastery.NextReview("a", nil, true, testNow).Data(),
	}}}

	repo := &plainProgress{saved: mastery.Progress{}}
	require.NoError(t, Restore(ctx, snap, repo, s.StatsRepo()))
	assert.Len(t, repo.saved, 1)

	diskFull := fmt.Errorf("disk full")
	repo.saveErr = diskFull
	err := Restore(ctx, snap, repo, s.StatsRepo())
	require.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "restore progress")
}
