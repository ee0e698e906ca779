package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// The error types below are what callers match on with errors.As. The
// retry wrapper decides from them whether another call can help.

// ErrRateLimit is an HTTP 429. RetryAfter is zero when the backend gave
// no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx replies and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected is any other 4xx: a bad key, an unknown model or a payload
// the backend refuses.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrInvalidResponse is a reply that is not JSON or breaks the schema.
// Content keeps the raw reply for the event log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "invalid LLM response: " + e.Err.Error()
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a reply cut off at MaxTokens. Content holds the
// partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated at the token limit"
}

// ErrUnsupportedAttachment means the backend cannot read a document of
// this MIME type at all.
type ErrUnsupportedAttachment struct {
	Provider string
	MIMEType string
}

func (e *ErrUnsupportedAttachment) Error() string {
	return fmt.Sprintf("%s does not accept %s attachments", e.Provider, e.MIMEType)
}
