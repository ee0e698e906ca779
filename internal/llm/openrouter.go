package llm

import (
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider speaks the OpenAI wire format to openrouter.ai and
// adds the attribution headers OpenRouter reads.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Transport: attribution{
		next:    http.DefaultTransport,
		referer: cfg.Referer,
		title:   cfg.Title,
	}}

	// Model ids are vendor/model paths and are used verbatim.
	return &OpenRouterProvider{OpenAIProvider: &OpenAIProvider{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}}, nil
}

type attribution struct {
	next           http.RoundTripper
	referer, title string
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	if a.referer == "" && a.title == "" {
		return a.next.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	if a.referer != "" {
		r.Header.Set("HTTP-Referer", a.referer)
	}
	if a.title != "" {
		r.Header.Set("X-Title", a.title)
	}
	return a.next.RoundTrip(r)
}
