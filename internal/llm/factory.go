package llm

import (
	"context"
	"fmt"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → logging → provider. It returns nil, nil when no
// provider is configured.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderNone:
		return nil, nil
	case ProviderMock:
		base = NewMockProvider()
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, cfg.Provider, events), cfg.Retry), nil
}
