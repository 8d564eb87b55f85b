// Package redisstore keeps learner progress in Redis so several devices can
// share one learner's review schedule.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/mastery"
)

// DefaultKey is the hash holding one JSON record per question ID.
const DefaultKey = "drivesmart:progress"

// ProgressRepo implements store.ProgressRepo on a Redis hash.
type ProgressRepo struct {
	Client *redis.Client
	key    string
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

// New connects to Redis and returns a progress repo using key (DefaultKey
// when empty).
func New(ctx context.Context, url, key string) (*ProgressRepo, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	return &ProgressRepo{Client: client, key: key}, nil
}

// Close shuts down the client.
func (r *ProgressRepo) Close() error {
	return r.Client.Close()
}

// HealthCheck verifies the connection is alive.
func (r *ProgressRepo) HealthCheck(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *ProgressRepo) Load(ctx context.Context) (mastery.Progress, error) {
	fields, err := r.Client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return decodeRecords(fields), nil
}

func (r *ProgressRepo) Save(ctx context.Context, rec mastery.Record) error {
	value, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	if err := r.Client.HSet(ctx, r.key, rec.QuestionID, value).Err(); err != nil {
		return fmt.Errorf("save progress record %q: %w", rec.QuestionID, err)
	}
	return nil
}

func (r *ProgressRepo) Reset(ctx context.Context) error {
	if err := r.Client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// Replace swaps all progress for p in one MULTI/EXEC transaction.
func (r *ProgressRepo) Replace(ctx context.Context, p mastery.Progress) error {
	fields := make(map[string]any, len(p))
	for id, rec := range p {
		value, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		fields[id] = value
	}
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(fields) > 0 {
			pipe.HSet(ctx, r.key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace progress: %w", err)
	}
	return nil
}

func encodeRecord(rec mastery.Record) (string, error) {
	b, err := json.Marshal(rec.Data())
	if err != nil {
		return "", fmt.Errorf("marshal progress record: %w", err)
	}
	return string(b), nil
}

// decodeRecords turns hash fields into progress. Fields that are not valid
// records are skipped with a warning.
func decodeRecords(fields map[string]string) mastery.Progress {
	data := make([]mastery.RecordData, 0, len(fields))
	for id, raw := range fields {
		var d mastery.RecordData
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			slog.Warn("skipping undecodable progress record", "question_id", id, "error", err)
			continue
		}
		if d.QuestionID != id {
			slog.Warn("skipping progress record with mismatched id", "field", id, "question_id", d.QuestionID)
			continue
		}
		data = append(data, d)
	}

	progress, errs := mastery.LoadProgress(data)
	for _, err := range errs {
		slog.Warn("skipping corrupted progress record", "error", err)
	}
	return progress
}
