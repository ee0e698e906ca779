package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish checks a provider reply before it is handed back. A truncated
// reply is never valid JSON worth parsing.
func finish(schema *Schema, raw json.RawMessage, stop string) (json.RawMessage, error) {
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: raw}
	}
	return structured(schema, raw)
}

// statusError maps an HTTP failure from any SDK onto the package errors.
// A zero status means the request never got an answer.
func statusError(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case status == 0, status >= 500, status == http.StatusRequestTimeout:
		return &ErrProviderUnavailable{Err: err}
	default:
		return &ErrRejected{Status: status, Err: err}
	}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
