package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/settings"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/stats"
)

// kv_settings keys.
const (
	statsKey    = "stats"
	settingsKey = "settings"
)

// kvRepo stores JSON documents in kv_settings. It implements StatsRepo and
// SettingsRepo.
type kvRepo struct {
	drv *entsql.Driver
}

// get decodes the document under key into v. It reports false when the key
// is absent.
func (r *kvRepo) get(ctx context.Context, key string, v any) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("name", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("query %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	var raw string
	if err := rows.Scan(&raw); err != nil {
		return false, fmt.Errorf("scan %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *kvRepo) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("name", "value", "updated_at").
		Values(key, string(b), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *kvRepo) LoadStats(ctx context.Context) (stats.Stats, error) {
	var s stats.Stats
	if _, err := r.get(ctx, statsKey, &s); err != nil {
		return stats.Stats{}, err
	}
	return s, nil
}

func (r *kvRepo) SaveStats(ctx context.Context, s stats.Stats) error {
	return r.put(ctx, statsKey, s)
}

func (r *kvRepo) LoadSettings(ctx context.Context) (settings.Settings, error) {
	s := settings.Default()
	found, err := r.get(ctx, settingsKey, &s)
	if err != nil {
		return settings.Default(), err
	}
	if !found {
		return settings.Default(), nil
	}
	return s.Normalize(), nil
}

func (r *kvRepo) SaveSettings(ctx context.Context, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return r.put(ctx, settingsKey, s)
}
