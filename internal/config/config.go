// Package config loads drivesmart configuration from the environment.
// All variables use the DRIVESMART_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/llm"
)

// Progress backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Store StoreConfig
	Bank  BankConfig
	Log   LogConfig
	LLM   llm.Config
}

// StoreConfig selects where progress lives. Stats, settings and the event
// log always live in SQLite.
type StoreConfig struct {
	DBPath   string // empty means store.DefaultDBPath
	Backend  string
	RedisURL string
	RedisKey string
}

// BankConfig locates the question bank.
type BankConfig struct {
	Path string // file or directory; empty means the embedded bank
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads a .env file from the working directory if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			DBPath:   envStr("DRIVESMART_DB", ""),
			Backend:  strings.ToLower(envStr("DRIVESMART_BACKEND", BackendSQLite)),
			RedisURL: envStr("DRIVESMART_REDIS_URL", "redis://localhost:6379"),
			RedisKey: envStr("DRIVESMART_REDIS_KEY", ""),
		},
		Bank: BankConfig{
			Path: envStr("DRIVESMART_BANK", ""),
		},
		Log: LogConfig{
			Level:  envStr("DRIVESMART_LOG_LEVEL", "warn"),
			Format: envStr("DRIVESMART_LOG_FORMAT", "text"),
		},
		LLM: llm.ConfigFromEnv(os.Getenv),
	}
	if !envBool("DRIVESMART_LLM_ENABLED", true) {
		cfg.LLM.Provider = llm.ProviderNone
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return errors.New("DRIVESMART_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("DRIVESMART_BACKEND must be %q or %q, got %q", BackendSQLite, BackendRedis, c.Store.Backend)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
