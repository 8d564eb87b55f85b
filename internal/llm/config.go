package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names.
const (
	ProviderNone       = ""
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// defaultModels are the models used when none is configured.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderGemini:     "gemini-flash",
}

// keyEnv is the conventional API key variable of each provider.
var keyEnv = map[string]string{
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// Config selects and configures the model provider.
type Config struct {
	Provider string // empty disables model calls
	Model    string
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only
	Timeout  time.Duration
	Retry    RetryConfig
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is used when no retry policy is configured.
var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	InitialWait: time.Second,
	MaxWait:     10 * time.Second,
	Multiplier:  2,
}

// Enabled reports whether a provider is configured.
func (c Config) Enabled() bool {
	return c.Provider != ProviderNone
}

// ConfigFromEnv reads DRIVESMART_LLM_* variables through getenv, which
// defaults to os.Getenv. Without DRIVESMART_LLM_PROVIDER the first
// provider whose conventional API key is set is used.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Config{
		Provider: getenv("DRIVESMART_LLM_PROVIDER"),
		Model:    getenv("DRIVESMART_LLM_MODEL"),
		APIKey:   getenv("DRIVESMART_LLM_API_KEY"),
		BaseURL:  getenv("DRIVESMART_LLM_BASE_URL"),
		Timeout:  30 * time.Second,
		Retry:    DefaultRetry,
	}
	if v := getenv("DRIVESMART_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := getenv("DRIVESMART_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}

	if cfg.Provider == ProviderNone {
		for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
			if k := getenv(keyEnv[p]); k != "" {
				cfg.Provider = p
				if cfg.APIKey == "" {
					cfg.APIKey = k
				}
				break
			}
		}
	} else if cfg.APIKey == "" {
		cfg.APIKey = getenv(keyEnv[cfg.Provider])
	}

	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	return cfg
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("DRIVESMART_LLM_API_KEY or %s is required for the %s provider", keyEnv[c.Provider], c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
