package ai

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"resumatch/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func testRetryPolicy(maxRetries int) retryPolicy {
	return retryPolicy{maxRetries: maxRetries, baseDelay: time.Millisecond, logger: errors.NewNopLogger()}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network timeout", timeoutNetError{}, true},
		{"wrapped network timeout", fmt.Errorf("call: %w", timeoutNetError{}), true},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"googleapi 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"googleapi 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai 500", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}, true},
		{"genai 403", genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED"}, false},
		{"context canceled", context.Canceled, false},
		{"plain error", fmt.Errorf("bad input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromTransientErrors(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), testRetryPolicy(2), "embed", func() (string, error) {
		calls++
		if calls < 3 {
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("Expected 'ok' after 3 calls, got %q after %d", got, calls)
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), testRetryPolicy(3), "rerank", func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusBadRequest}
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := testRetryPolicy(5)
	policy.baseDelay = time.Hour

	calls := 0
	_, err := withRetry(ctx, policy, "embed", func() (int, error) {
		calls++
		cancel()
		return 0, timeoutNetError{}
	})
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}

func TestBackoffIsCapped(t *testing.T) {
	p := retryPolicy{baseDelay: time.Second}
	if d := p.backoff(1); d < time.Second || d > 1100*time.Millisecond {
		t.Errorf("Unexpected first backoff %v", d)
	}
	if d := p.backoff(10); d != maxBackoff {
		t.Errorf("Expected backoff capped at %v, got %v", maxBackoff, d)
	}
}

func TestBatches(t *testing.T) {
	got := batches(5, 2)
	want := [][2]int{{0, 2}, {2, 4}, {4, 5}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("batches(5, 2) = %v, want %v", got, want)
	}
	if got := batches(3, 0); len(got) != 1 || got[0] != [2]int{0, 3} {
		t.Errorf("batches(3, 0) = %v", got)
	}
	if got := batches(0, 4); len(got) != 0 {
		t.Errorf("batches(0, 4) = %v", got)
	}
}
