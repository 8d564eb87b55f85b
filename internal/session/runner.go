package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

// ErrNotStarted is returned when a runner method needs an active session.
var ErrNotStarted = errors.New("session not started")

// Runner drives one session at a time and persists its effects. Progress
// is required; events and stats are optional.
type Runner struct {
	Planner  *Planner
	Progress store.ProgressRepo
	Events   store.EventRepo
	Stats    store.StatsRepo
	Clock    func() time.Time

	state    *State
	progress mastery.Progress
	shownAt  time.Time
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// State returns the active session state, nil before Start.
func (r *Runner) State() *State {
	return r.state
}

// WorkingProgress returns the working copy of progress for the active session.
func (r *Runner) WorkingProgress() mastery.Progress {
	return r.progress
}

// Start loads progress, plans a session and logs its start.
func (r *Runner) Start(ctx context.Context, cfg Config) (*State, error) {
	progress, err := r.Progress.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if progress == nil {
		progress = mastery.Progress{}
	}

	plan, err := r.Planner.BuildPlan(cfg, progress)
	if err != nil {
		return nil, err
	}

	r.progress = progress
	r.state = NewState(plan)
	r.shownAt = r.now()

	r.appendSession(ctx, store.SessionEventData{
		SessionID:       plan.ID,
		Action:          store.ActionStart,
		Mode:            string(plan.Mode),
		TopicID:         plan.TopicID,
		QuestionsServed: len(plan.Questions),
	})
	slog.Info("session started", "session_id", plan.ID, "mode", plan.Mode,
		"topic", plan.TopicID, "questions", len(plan.Questions))
	return r.state, nil
}

// Current returns the question being asked.
func (r *Runner) Current() (bank.Question, bool) {
	if r.state == nil {
		return bank.Question{}, false
	}
	return r.state.Current()
}

// Answer grades choice for the current question. The updated record is
// saved before the answer counts in the session, so a failed save leaves
// the question open for another try.
func (r *Runner) Answer(ctx context.Context, choice int) (Result, error) {
	if r.state == nil {
		return Result{}, ErrNotStarted
	}
	q, ok := r.state.Current()
	if !ok {
		return Result{}, ErrSessionComplete
	}

	var prev *mastery.Record
	if rec, ok := r.progress.Lookup(q.ID); ok {
		prev = &rec
	}

	now := r.now()
	res, err := r.state.Grade(choice, prev, now)
	if err != nil {
		return Result{}, err
	}

	if err := r.Progress.Save(ctx, res.Record); err != nil {
		return Result{}, fmt.Errorf("save progress for %s: %w", q.ID, err)
	}
	r.state.Commit(res)
	r.progress[q.ID] = res.Record

	if r.Events != nil {
		err := r.Events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID:        r.state.Plan.ID,
			QuestionID:       q.ID,
			TopicID:          q.TopicID,
			ChosenIndex:      choice,
			CorrectIndex:     q.CorrectIndex,
			Correct:          res.Correct,
			ConfidenceBefore: res.ConfidenceBefore,
			ConfidenceAfter:  res.Record.ConfidenceLevel,
			TimeMs:           now.Sub(r.shownAt).Milliseconds(),
		})
		if err != nil {
			slog.Warn("append answer event failed", "question_id", q.ID, "error", err)
		}
	}
	return res, nil
}

// Next advances to the following question.
func (r *Runner) Next() bool {
	if r.state == nil {
		return false
	}
	more := r.state.Next()
	r.shownAt = r.now()
	return more
}

// Finish ends the session, logs it and folds it into the stats.
func (r *Runner) Finish(ctx context.Context) (Summary, error) {
	if r.state == nil {
		return Summary{}, ErrNotStarted
	}
	now := r.now()
	sum := r.state.Summary(now)

	r.appendSession(ctx, store.SessionEventData{
		SessionID:       sum.SessionID,
		Action:          store.ActionEnd,
		Mode:            string(sum.Mode),
		TopicID:         r.state.Plan.TopicID,
		QuestionsServed: sum.Asked,
		CorrectAnswers:  sum.Correct,
		DurationSecs:    int(sum.Duration / time.Second),
		Passed:          sum.Passed,
	})

	if r.Stats != nil && sum.Asked > 0 {
		st, err := r.Stats.LoadStats(ctx)
		if err != nil {
			return sum, fmt.Errorf("load stats: %w", err)
		}
		st = stats.Apply(st, sum.Record(now), now)
		if err := r.Stats.SaveStats(ctx, st); err != nil {
			return sum, fmt.Errorf("save stats: %w", err)
		}
	}

	slog.Info("session finished", "session_id", sum.SessionID, "asked", sum.Asked,
		"correct", sum.Correct, "passed", sum.Passed)
	r.state = nil
	return sum, nil
}

func (r *Runner) appendSession(ctx context.Context, data store.SessionEventData) {
	if r.Events == nil {
		return
	}
	if err := r.Events.AppendSessionEvent(ctx, data); err != nil {
		slog.Warn("append session event failed", "session_id", data.SessionID,
			"action", data.Action, "error", err)
	}
}
