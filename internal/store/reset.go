package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
)

// SnapshotsKept is how many snapshots survive a prune.
const SnapshotsKept = 5

// TakeSnapshot saves the current progress and stats as a snapshot and
// prunes old ones.
func TakeSnapshot(ctx context.Context, reason string, progress ProgressRepo, st StatsRepo, snaps SnapshotRepo, now time.Time) error {
	p, err := progress.Load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	s, err := st.LoadStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	err = snaps.Save(ctx, &Snapshot{
		Timestamp: now,
		Data: SnapshotData{
			Version:  SnapshotVersion,
			Reason:   reason,
			Progress: mastery.ExportProgress(p),
			Stats:    &s,
		},
	})
	if err != nil {
		return err
	}
	return snaps.Prune(ctx, SnapshotsKept)
}

// Reset snapshots the learner state and then clears all progress and
// statistics. Settings are kept.
func Reset(ctx context.Context, progress ProgressRepo, st StatsRepo, snaps SnapshotRepo, now time.Time) error {
	if err := TakeSnapshot(ctx, "reset", progress, st, snaps, now); err != nil {
		return fmt.Errorf("snapshot before reset: %w", err)
	}
	if err := progress.Reset(ctx); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	if err := st.SaveStats(ctx, stats.Stats{}); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	slog.Info("learner progress reset")
	return nil
}

// Restore replaces progress and stats with the contents of snap.
// Undecodable records are skipped. Backends implementing ProgressReplacer
// restore progress atomically; others are reset and refilled record by
// record.
func Restore(ctx context.Context, snap *Snapshot, progress ProgressRepo, st StatsRepo) error {
	p, errs := mastery.LoadProgress(snap.Data.Progress)
	for _, err := range errs {
		slog.Warn("skipping corrupted snapshot record", "error", err)
	}
	if err := replaceProgress(ctx, progress, p); err != nil {
		return fmt.Errorf("restore progress: %w", err)
	}
	if snap.Data.Stats != nil {
		if err := st.SaveStats(ctx, *snap.Data.Stats); err != nil {
			return fmt.Errorf("restore stats: %w", err)
		}
	}
	return nil
}

func replaceProgress(ctx context.Context, progress ProgressRepo, p mastery.Progress) error {
	if r, ok := progress.(ProgressReplacer); ok {
		return r.Replace(ctx, p)
	}
	if err := progress.Reset(ctx); err != nil {
		return err
	}
	for _, rec := range p {
		if err := progress.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
