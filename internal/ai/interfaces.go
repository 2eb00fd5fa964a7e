package ai

import (
	"context"

	"resumatch/internal/matcher"
)

// Both Gemini capabilities and the offline embedder plug straight into the
// matcher engine.
var (
	_ matcher.Embedder   = (*GeminiEmbedder)(nil)
	_ matcher.PairScorer = (*GeminiPairScorer)(nil)
	_ matcher.Embedder   = HashEmbedder{}
	_ matcher.Embedder   = (*ModelCache)(nil)
	_ matcher.PairScorer = (*ModelCache)(nil)
)

// ModelChecker reports the readiness of a hosted model
type ModelChecker interface {
	GetModelInfo(ctx context.Context) *ModelInfo
}

// StatsReporter exposes circuit breaker statistics
type StatsReporter interface {
	GetCircuitBreakerStats() map[string]any
}

// ModelInfo represents information about an AI model
type ModelInfo struct {
	Name        string `json:"name"`
	Capability  string `json:"capability"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
