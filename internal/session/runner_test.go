package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

type fakeProgress struct {
	records mastery.Progress
	saves   []mastery.Record
	saveErr error
}

func (f *fakeProgress) Load(context.Context) (mastery.Progress, error) {
	out := mastery.Progress{}
	for k, v := range f.records {
		out[k] = v
	}
	return out, nil
}

func (f *fakeProgress) Save(_ context.Context, r mastery.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.records == nil {
		f.records = mastery.Progress{}
	}
	f.records[r.QuestionID] = r
	f.saves = append(f.saves, r)
	return nil
}

func (f *fakeProgress) Reset(context.Context) error {
	f.records = nil
	return nil
}

type fakeEvents struct {
	answers  []store.AnswerEventData
	sessions []store.SessionEventData
	err      error
}

func (f *fakeEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return f.err
}

func (f *fakeEvents) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	f.answers = append(f.answers, d)
	return f.err
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	f.sessions = append(f.sessions, d)
	return f.err
}

func (f *fakeEvents) QueryAnswerEvents(context.Context, store.QueryOpts) ([]store.AnswerEventRecord, error) {
	return nil, nil
}

func (f *fakeEvents) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return nil, nil
}

func (f *fakeEvents) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

type fakeStats struct {
	st    stats.Stats
	saved int
}

func (f *fakeStats) LoadStats(context.Context) (stats.Stats, error) { return f.st, nil }

func (f *fakeStats) SaveStats(_ context.Context, s stats.Stats) error {
	f.st = s
	f.saved++
	return nil
}

type testRunner struct {
	*Runner
	progress *fakeProgress
	events   *fakeEvents
	stats    *fakeStats
	now      time.Time
}

func newTestRunner(t *testing.T, n int) *testRunner {
	t.Helper()
	tr := &testRunner{
		progress: &fakeProgress{},
		events:   &fakeEvents{},
		stats:    &fakeStats{},
		now:      testNow,
	}
	clock := func() time.Time { return tr.now }
	sel := spacedrep.NewSelector(clock, rand.New(rand.NewPCG(3, 4)))
	tr.Runner = &Runner{
		Planner:  NewPlanner(testQuestions("a", n), sel),
		Progress: tr.progress,
		Events:   tr.events,
		Stats:    tr.stats,
		Clock:    clock,
	}
	return tr
}

func TestRunner_FullSession(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 3)

	state, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 3})
	require.NoError(t, err)
	require.Len(t, state.Plan.Questions, 3)
	require.Len(t, tr.events.sessions, 1)
	assert.Equal(t, store.ActionStart, tr.events.sessions[0].Action)

	for i := 0; ; i++ {
		q, ok := tr.Current()
		require.True(t, ok)
		tr.now = tr.now.Add(5 * time.Second)

		choice := 1
		if i == 0 {
			choice = 2
		}
		res, err := tr.Answer(ctx, choice)
		require.NoError(t, err)
		assert.Equal(t, q.ID, res.Record.QuestionID)

		// Persisted before moving on.
		saved, ok := tr.progress.records[q.ID]
		require.True(t, ok)
		assert.Equal(t, res.Record, saved)

		if !tr.Next() {
			break
		}
	}

	assert.Len(t, tr.progress.saves, 3)
	require.Len(t, tr.events.answers, 3)
	assert.Equal(t, int64(5000), tr.events.answers[0].TimeMs)
	assert.False(t, tr.events.answers[0].Correct)

	sum, err := tr.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Asked)
	assert.Equal(t, 2, sum.Correct)
	assert.Equal(t, 15*time.Second, sum.Duration)

	require.Len(t, tr.events.sessions, 2)
	assert.Equal(t, store.ActionEnd, tr.events.sessions[1].Action)
	assert.Equal(t, 1, tr.stats.saved)
	assert.Equal(t, 3, tr.stats.st.TotalQuestions)
	assert.Equal(t, 2, tr.stats.st.CorrectAnswers)
	assert.Equal(t, 1, tr.stats.st.StreakDays)
	require.Len(t, tr.stats.st.Sessions, 1)
	assert.Nil(t, tr.State())
}

func TestRunner_UsesExistingProgress(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 1)
	tr.progress.records = mastery.Progress{
		"a-00": {QuestionID: "a-00", CorrectCount: 2, ConfidenceLevel: 30, NextReviewDate: testNow},
	}

	_, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 1})
	require.NoError(t, err)

	res, err := tr.Answer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, res.ConfidenceBefore)
	assert.Equal(t, 40, res.Record.ConfidenceLevel)
	assert.Equal(t, 3, res.Record.CorrectCount)
	assert.Equal(t, 40, tr.WorkingProgress()["a-00"].ConfidenceLevel)
}

func TestRunner_SaveFailure(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 2)
	tr.progress.saveErr = errors.New("disk full")

	_, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 2})
	require.NoError(t, err)

	_, err = tr.Answer(ctx, 1)
	require.Error(t, err)
	assert.Empty(t, tr.WorkingProgress())
	assert.Empty(t, tr.events.answers)
	assert.Empty(t, tr.State().Answers)
	assert.False(t, tr.State().Answered())

	// the same question can be answered once the store recovers
	tr.progress.saveErr = nil
	res, err := tr.Answer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tr.progress.saves, 1)
	assert.Equal(t, res.Record, tr.progress.saves[0])
	assert.Len(t, tr.State().Answers, 1)

	sum, err := tr.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Asked)
}

func TestRunner_EventErrorsDoNotFail(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 1)
	tr.events.err = errors.New("log unavailable")

	_, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 1})
	require.NoError(t, err)
	_, err = tr.Answer(ctx, 0)
	require.NoError(t, err)
	_, err = tr.Finish(ctx)
	require.NoError(t, err)
}

func TestRunner_NotStarted(t *testing.T) {
	tr := newTestRunner(t, 1)

	_, err := tr.Answer(t.Context(), 0)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = tr.Finish(t.Context())
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.False(t, tr.Next())
}

func TestRunner_EmptySessionSkipsStats(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 2)

	_, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 2})
	require.NoError(t, err)
	_, err = tr.Finish(ctx)
	require.NoError(t, err)
	assert.Zero(t, tr.stats.saved)
}

func TestRunner_OptionalRepos(t *testing.T) {
	ctx := t.Context()
	tr := newTestRunner(t, 1)
	tr.Runner.Events = nil
	tr.Runner.Stats = nil

	_, err := tr.Start(ctx, Config{Mode: ModePractice, Count: 1})
	require.NoError(t, err)
	_, err = tr.Answer(ctx, 1)
	require.NoError(t, err)
	sum, err := tr.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Correct)
}
