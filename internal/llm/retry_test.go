package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func okResp() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"questions":[]}`)}
}

func outage() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

// newRetry returns a retrying provider that records waits instead of sleeping.
func newRetry(mock *MockProvider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	p := WithRetry(mock, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}).(*RetryProvider)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return p, &waits
}

func TestRetry_RecoversFromOutage(t *testing.T) {
	mock := NewMockProvider(outage(), outage(), okResp())
	p, waits := newRetry(mock, 3)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
	if len(*waits) != 2 {
		t.Fatalf("expected 2 waits, got %v", *waits)
	}
	// 100ms then 200ms, each within ±20%.
	for i, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond} {
		w := (*waits)[i]
		if w < base*8/10 || w > base*12/10 {
			t.Errorf("wait %d = %v, want about %v", i, w, base)
		}
	}
}

func TestRetry_BackoffIsCapped(t *testing.T) {
	mock := NewMockProvider(outage(), outage(), outage(), outage(), outage())
	p, waits := newRetry(mock, 5)

	_, _ = p.Generate(context.Background(), Request{})
	last := (*waits)[len(*waits)-1]
	if last > 360*time.Millisecond {
		t.Errorf("last wait %v exceeds the cap plus jitter", last)
	}
}

func TestRetry_ExhaustedKeepsCause(t *testing.T) {
	mock := NewMockProvider(outage(), outage(), outage())
	p, _ := newRetry(mock, 3)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error should report attempts: %v", err)
	}
}

func TestRetry_RequestShapedErrorsAreNotRetried(t *testing.T) {
	for name, resp := range map[string]MockResponse{
		"max tokens": {Err: &ErrMaxTokensExceeded{}},
		"attachment": {Err: &ErrUnsupportedAttachment{Provider: "openai", MIMEType: "application/pdf"}},
		"cancelled":  {Err: context.Canceled},
		"rejected":   {Err: &ErrRejected{Status: 401, Err: errors.New("bad key")}},
	} {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(resp, okResp())
			p, waits := newRetry(mock, 3)
			if _, err := p.Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if mock.CallCount() != 1 || len(*waits) != 0 {
				t.Errorf("calls = %d, waits = %v", mock.CallCount(), *waits)
			}
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("not json")}}
	mock := NewMockProvider(bad, bad, okResp())
	p, _ := newRetry(mock, 5)

	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_RateLimitUsesRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second, Err: errors.New("429")}}, okResp())
	p, waits := newRetry(mock, 3)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 7*time.Second {
		t.Errorf("waits = %v, want [7s]", *waits)
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(outage(), okResp())
	p, _ := newRetry(mock, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_SleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("sleepContext = %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("sleepContext = %v", err)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p, _ := newRetry(NewMockProvider(), 2)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
