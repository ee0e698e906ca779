package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects a backend and carries settings for every backend.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// Referer and Title identify the app on openrouter.ai rankings.
	Referer string
	Title   string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp", Title: "studyquiz"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 90 * time.Second,
	}
}

// envBinding copies one environment variable into a Config field.
type envBinding struct {
	name string
	set  func(*Config, string)
}

var envBindings = []envBinding{
	{"STUDYQUIZ_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"STUDYQUIZ_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"STUDYQUIZ_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"STUDYQUIZ_ANTHROPIC_BASE_URL", func(c *Config, v string) { c.Anthropic.BaseURL = v }},
	{"STUDYQUIZ_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"STUDYQUIZ_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"STUDYQUIZ_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"STUDYQUIZ_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"STUDYQUIZ_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"STUDYQUIZ_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"STUDYQUIZ_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
	{"STUDYQUIZ_OPENROUTER_REFERER", func(c *Config, v string) { c.OpenRouter.Referer = v }},
	{"STUDYQUIZ_LLM_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}},
}

// ConfigFromEnv overlays STUDYQUIZ_* variables onto DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			b.set(&cfg, v)
		}
	}
	if m := os.Getenv("STUDYQUIZ_LLM_MODEL"); m != "" {
		cfg.SetModel(m)
	}
	return cfg
}

// SetModel overrides the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}

// wellKnownKeys are the vendors' own variable names, in the order they
// are tried when no provider was chosen explicitly.
var wellKnownKeys = []envBinding{
	{"GEMINI_API_KEY", func(c *Config, v string) { c.Provider, c.Gemini.APIKey = "gemini", v }},
	{"OPENAI_API_KEY", func(c *Config, v string) { c.Provider, c.OpenAI.APIKey = "openai", v }},
	{"ANTHROPIC_API_KEY", func(c *Config, v string) { c.Provider, c.Anthropic.APIKey = "anthropic", v }},
	{"OPENROUTER_API_KEY", func(c *Config, v string) { c.Provider, c.OpenRouter.APIKey = "openrouter", v }},
}

// DiscoverConfig picks the first provider whose well-known key is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, b := range wellKnownKeys {
		if v := os.Getenv(b.name); v != "" {
			b.set(&cfg, v)
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic":
		key, env = c.Anthropic.APIKey, "STUDYQUIZ_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "STUDYQUIZ_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "STUDYQUIZ_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "STUDYQUIZ_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
