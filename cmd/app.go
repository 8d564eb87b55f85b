package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/bank"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/config"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/explain"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/llm"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/session"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/spacedrep"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store/redisstore"
)

// app bundles the dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	store    *store.Store
	bank     *bank.Bank
	progress store.ProgressRepo

	redis *redisstore.ProgressRepo
}

// openApp opens the SQLite store, the configured progress backend and the
// question bank.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{cfg: cfg, store: st, progress: st.ProgressRepo()}

	if cfg.Store.Backend == config.BackendRedis {
		rp, err := redisstore.New(ctx, cfg.Store.RedisURL, cfg.Store.RedisKey)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis, a.progress = rp, rp
	}

	a.bank, err = loadBank(cfg.Bank.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	slog.Debug("app ready", "db", dbPath, "backend", cfg.Store.Backend, "questions", a.bank.Len())
	return a, nil
}

func loadBank(path string) (*bank.Bank, error) {
	if path == "" {
		return bank.Default()
	}
	b, err := bank.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("question bank %s has no valid questions", path)
	}
	return b, nil
}

// newRunner returns a session runner over the app's bank and stores.
func (a *app) newRunner() *session.Runner {
	return &session.Runner{
		Planner:  session.NewPlanner(a.bank.Questions(), spacedrep.NewSelector(nil, nil)),
		Progress: a.progress,
		Events:   a.store.EventRepo(),
		Stats:    a.store.StatsRepo(),
	}
}

// explainer returns the explanation service. Without a usable LLM provider
// only bank explanations are shown.
func (a *app) explainer(ctx context.Context) *explain.Service {
	provider, err := llm.NewProvider(ctx, a.cfg.LLM, a.store.EventRepo())
	if err != nil {
		slog.Warn("LLM provider unavailable, generated explanations disabled", "error", err)
		return explain.New(nil, 0)
	}
	return explain.New(provider, a.cfg.LLM.Timeout)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("close redis", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("close store", "error", err)
	}
}
