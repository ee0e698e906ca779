package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient provider failures with capped
// exponential backoff and ±20% jitter. A rate limit's RetryAfter takes
// precedence over the computed wait.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, sleep: sleepContext}
}

type retryVerdict int

const (
	giveUp retryVerdict = iota
	retryOnce
	retryAgain
)

// classify decides whether err is worth another call. Request-shaped
// failures such as truncation or a refused payload repeat identically, so they are returned at once. A malformed response may
// be a one-off and gets a single retry.
func classify(err error) retryVerdict {
	var (
		maxTok   *ErrMaxTokensExceeded
		attach   *ErrUnsupportedAttachment
		rejected *ErrRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok), errors.As(err, &attach), errors.As(err, &rejected):
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAgain
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		invalidSeen bool
	)
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, r.backoff(attempt-1, err)); serr != nil {
				return nil, serr
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
	}
	if r.config.MaxAttempts == 1 {
		return nil, err
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.config.MaxAttempts, err)
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before retry number attempt+1.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt {
		wait *= r.config.Multiplier
		if wait >= float64(r.config.MaxWait) {
			break
		}
	}
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
