package store

import (
	"context"
	"time"
)

// QueryOpts filters and pages event queries. Zero fields are ignored.
type QueryOpts struct {
	Limit   int
	After   int64 // sequence > After
	Before  int64 // sequence < Before
	From    time.Time
	To      time.Time
	Purpose string
}

// LLMRequestEventData is what the logging provider records per call.
type LLMRequestEventData struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Purpose      string `json:"purpose"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
	RequestBody  string `json:"request,omitempty"`
	ResponseBody string `json:"response,omitempty"`
}

// LLMEvent is a stored call. Sequence orders it against quiz attempts.
type LLMEvent struct {
	ID        int       `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	LLMRequestEventData
}

// PurposeUsage aggregates token usage per purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage per model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
