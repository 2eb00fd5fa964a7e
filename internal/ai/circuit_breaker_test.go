package ai

import (
	"fmt"
	"testing"
	"time"

	"resumatch/internal/config"

	"github.com/sony/gobreaker/v2"
)

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	embedCfg := testBreakerConfig()
	rerankCfg := testBreakerConfig()
	rerankCfg.MaxRequests = 5

	embedCB := NewBreaker[[]float64]("Embedding", embedCfg, nil)
	rerankCB := NewBreaker[[]float64]("Rerank", rerankCfg, nil)

	tests := []struct {
		name     string
		breaker  *Breaker[[]float64]
		wantName string
	}{
		{"EmbeddingCircuitBreaker", embedCB, "AI-Embedding"},
		{"RerankCircuitBreaker", rerankCB, "AI-Rerank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.breaker.GetStats()

			name, ok := stats["name"].(string)
			if !ok {
				t.Fatal("Circuit breaker name not found")
			}
			if name != tt.wantName {
				t.Errorf("Expected circuit breaker name '%s', got '%s'", tt.wantName, name)
			}

			state, ok := stats["state"].(string)
			if !ok {
				t.Fatal("Circuit breaker state not found")
			}
			if state != "closed" {
				t.Errorf("Expected initial state 'closed', got '%s'", state)
			}
			if enabled, _ := stats["enabled"].(bool); !enabled {
				t.Error("Expected circuit breaker to be enabled")
			}
		})
	}

	// Tripping one breaker must not affect the other
	for i := 0; i < 2; i++ {
		_, _ = embedCB.Execute(func() ([]float64, error) { return nil, fmt.Errorf("fail") })
	}
	if embedCB.IsHealthy() {
		t.Error("Expected embedding breaker to be open")
	}
	if !rerankCB.IsHealthy() {
		t.Error("Expected rerank breaker to stay closed")
	}
}

func TestCircuitBreakerOpensAndShortCircuits(t *testing.T) {
	cb := NewBreaker[int]("Embedding", testBreakerConfig(), nil)

	calls := 0
	failing := func() (int, error) {
		calls++
		return 0, fmt.Errorf("model down")
	}

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatal("Expected error from failing call")
		}
	}

	_, err := cb.Execute(failing)
	if err != gobreaker.ErrOpenState {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected the open breaker to skip the call, got %d calls", calls)
	}
	if state := cb.GetStats()["state"]; state != "open" {
		t.Errorf("Expected state 'open', got %v", state)
	}
}

func TestDisabledCircuitBreaker(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.Enabled = false

	cb := NewBreaker[string]("Rerank", cfg, nil)
	if cb != nil {
		t.Fatal("Expected nil breaker when disabled")
	}

	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Expected nil breaker to run the function, got %q, %v", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("Expected nil breaker to be healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("Expected stats to report disabled breaker")
	}
}

func TestModelBreakerIsLenient(t *testing.T) {
	cb := newModelBreaker[int]("Embedding", testBreakerConfig(), nil)
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, fmt.Errorf("fail") })
	}
	if !cb.IsHealthy() {
		t.Error("Expected model breaker to stay closed below five requests")
	}
	_, _ = cb.Execute(func() (int, error) { return 0, fmt.Errorf("fail") })
	if cb.IsHealthy() {
		t.Error("Expected model breaker to open after five failures")
	}
}
