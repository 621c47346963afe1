package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tougaku/sensei/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, log zerolog.Logger, usage store.UsageRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown engine provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller -> retry -> timeout -> logging -> base,
	// so every attempt gets its own deadline and its own log line.
	logged := WithLogging(base, cfg.Provider, log, usage)
	timed := WithTimeout(logged, cfg.Timeout)
	retried := WithRetry(timed, cfg.Retry)

	return retried, nil
}
