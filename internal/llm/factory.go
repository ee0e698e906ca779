package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// NewProvider builds the configured backend. Calls pass through a timeout,
// then retries, then event logging (when sink is non-nil).
func NewProvider(ctx context.Context, cfg Config, sink EventSink) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if sink != nil {
		base = WithLogging(base, cfg.Provider, sink)
	}
	return withTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}

// NewProviderFromEnv reads STUDYQUIZ_* variables and, when no provider is
// named, falls back to the vendors' own key variables.
func NewProviderFromEnv(ctx context.Context, sink EventSink) (Provider, error) {
	cfg := ConfigFromEnv()
	if os.Getenv("STUDYQUIZ_LLM_PROVIDER") == "" {
		if found, ok := DiscoverConfig(); ok {
			found.Timeout = cfg.Timeout
			if m := os.Getenv("STUDYQUIZ_LLM_MODEL"); m != "" {
				found.SetModel(m)
			}
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, sink)
}

type timeoutProvider struct {
	Provider
	limit time.Duration
}

func withTimeout(p Provider, limit time.Duration) Provider {
	if limit <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, limit: limit}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.limit)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
