package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

// progressRepo implements ProgressRepo on the progress_records table.
type progressRepo struct {
	drv *entsql.Driver
}

var _ ProgressReplacer = (*progressRepo)(nil)

func (r *progressRepo) Load(ctx context.Context) (mastery.Progress, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("question_id", "correct_count", "wrong_count", "last_asked", "next_review_date", "confidence_level").
		From(entsql.Table(progressTable)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var data []mastery.RecordData
	for rows.Next() {
		var d mastery.RecordData
		if err := rows.Scan(&d.QuestionID, &d.CorrectCount, &d.WrongCount, &d.LastAsked, &d.NextReviewDate, &d.ConfidenceLevel); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		data = append(data, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}

	progress, errs := mastery.LoadProgress(data)
	for _, err := range errs {
		slog.Warn("skipping corrupted progress record", "error", err)
	}
	return progress, nil
}

func (r *progressRepo) Save(ctx context.Context, rec mastery.Record) error {
	return saveRecord(ctx, r.drv, rec)
}

func (r *progressRepo) Reset(ctx context.Context) error {
	return clearProgress(ctx, r.drv)
}

// Replace swaps all progress for p in a single transaction.
func (r *progressRepo) Replace(ctx context.Context, p mastery.Progress) (err error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin replace progress: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				slog.Warn("rollback replace progress", "error", rerr)
			}
		}
	}()

	if err := clearProgress(ctx, tx); err != nil {
		return err
	}
	for _, rec := range p {
		if err := saveRecord(ctx, tx, rec); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace progress: %w", err)
	}
	return nil
}

func saveRecord(ctx context.Context, ex dialect.ExecQuerier, rec mastery.Record) error {
	d := rec.Data()
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns("question_id", "correct_count", "wrong_count", "last_asked", "next_review_date", "confidence_level", "updated_at").
		Values(d.QuestionID, d.CorrectCount, d.WrongCount, d.LastAsked, d.NextReviewDate, d.ConfidenceLevel, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("question_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save progress record %q: %w", rec.QuestionID, err)
	}
	return nil
}

func clearProgress(ctx context.Context, ex dialect.ExecQuerier) error {
	query, args := entsql.Dialect(dialect.SQLite).Delete(progressTable).Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
