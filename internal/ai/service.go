package ai

import (
	"context"
	"fmt"
	"sync"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/matcher"
)

// Capabilities are the model handles the engine consumes. PairScorer is nil
// when no cross-encoder is available.
type Capabilities struct {
	Embedder   matcher.Embedder
	PairScorer matcher.PairScorer
	Mode       string
}

// BuildFunc constructs the capabilities on first use
type BuildFunc func(ctx context.Context) (*Capabilities, error)

// ModelCache lazily initialises the model capabilities at most once per
// process and hands the shared handles to every caller. It implements
// matcher.Embedder and matcher.PairScorer itself, so an engine can be wired
// before any model is loaded. Failed initialisation is not cached.
type ModelCache struct {
	build  BuildFunc
	logger *errors.Logger

	mu   sync.Mutex
	caps *Capabilities
}

// NewModelCache creates a cache building Gemini capabilities from cfg, or the
// offline hashing embedder when offline is set or no API key is configured.
func NewModelCache(cfg *config.Config, offline bool, logger *errors.Logger) *ModelCache {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return NewModelCacheWithBuilder(func(ctx context.Context) (*Capabilities, error) {
		return buildCapabilities(ctx, cfg, offline, logger)
	}, logger)
}

// NewModelCacheWithBuilder creates a cache around a custom builder
func NewModelCacheWithBuilder(build BuildFunc, logger *errors.Logger) *ModelCache {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &ModelCache{build: build, logger: logger}
}

// Load returns the capabilities, building them on the first call.
// Initialisation is detached from ctx cancellation so one abandoned request
// cannot poison the cache.
func (c *ModelCache) Load(ctx context.Context) (*Capabilities, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.caps != nil {
		return c.caps, nil
	}

	caps, err := c.build(context.WithoutCancel(ctx))
	if err != nil {
		c.logger.LogError(err, "Failed to initialise model capabilities")
		return nil, err
	}
	if caps == nil || caps.Embedder == nil {
		return nil, errors.NewAIError(errors.ErrCodeCapabilityUnavailable, "No embedder available", nil)
	}

	c.logger.Info("Model capabilities initialised",
		"mode", caps.Mode,
		"cross_encoder", caps.PairScorer != nil)
	c.caps = caps
	return caps, nil
}

// Embed implements matcher.Embedder
func (c *ModelCache) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	caps, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return caps.Embedder.Embed(ctx, texts)
}

// ScorePairs implements matcher.PairScorer. Without a cross-encoder it fails
// with CAPABILITY_UNAVAILABLE and the engine falls back to embeddings.
func (c *ModelCache) ScorePairs(ctx context.Context, pairs []matcher.Pair) ([]float64, error) {
	caps, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if caps.PairScorer == nil {
		return nil, errors.NewAIError(errors.ErrCodeCapabilityUnavailable,
			fmt.Sprintf("No cross-encoder available in %s mode", caps.Mode), nil)
	}
	return caps.PairScorer.ScorePairs(ctx, pairs)
}

// Loaded reports whether the capabilities have been initialised
func (c *ModelCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caps != nil
}

// GetModelInfo returns information about the loaded models for health checks.
// It does not trigger initialisation.
func (c *ModelCache) GetModelInfo(ctx context.Context) []*ModelInfo {
	c.mu.Lock()
	caps := c.caps
	c.mu.Unlock()

	if caps == nil {
		return []*ModelInfo{}
	}
	var infos []*ModelInfo
	for _, capability := range []any{caps.Embedder, caps.PairScorer} {
		switch m := capability.(type) {
		case ModelChecker:
			infos = append(infos, m.GetModelInfo(ctx))
		case HashEmbedder:
			infos = append(infos, &ModelInfo{
				Name:       fmt.Sprintf("hash-%d", m.Dimensions),
				Capability: "Embedding",
				Available:  true,
			})
		}
	}
	return infos
}

// GetCircuitBreakerStats returns circuit breaker statistics per capability
func (c *ModelCache) GetCircuitBreakerStats() map[string]any {
	c.mu.Lock()
	caps := c.caps
	c.mu.Unlock()

	stats := map[string]any{"loaded": caps != nil}
	if caps == nil {
		return stats
	}
	stats["mode"] = caps.Mode
	if r, ok := caps.Embedder.(StatsReporter); ok {
		stats["embedding"] = r.GetCircuitBreakerStats()
	}
	if r, ok := caps.PairScorer.(StatsReporter); ok {
		stats["rerank"] = r.GetCircuitBreakerStats()
	}
	return stats
}

func buildCapabilities(ctx context.Context, cfg *config.Config, offline bool, logger *errors.Logger) (*Capabilities, error) {
	embCfg := cfg.GetEmbeddingConfig()

	logger.Debug("Initializing model capabilities",
		"provider", embCfg.Provider,
		"model", embCfg.Model,
		"timeout", *embCfg.Timeout,
		"max_retries", *embCfg.MaxRetries,
		"offline", offline)

	if offline || cfg.UseLocalModels() {
		return &Capabilities{
			Embedder: NewHashEmbedder(embCfg.Dimensions),
			Mode:     config.ProviderLocal,
		}, nil
	}

	if embCfg.Provider != config.ProviderGemini {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", embCfg.Provider), nil)
	}

	embedder, err := NewGeminiEmbedder(ctx, embCfg, logger)
	if err != nil {
		return nil, err
	}
	caps := &Capabilities{Embedder: embedder, Mode: config.ProviderGemini}

	rerankCfg := cfg.GetRerankConfig()
	if cfg.Engine.CrossEncoder.Enabled && rerankCfg.Provider == config.ProviderGemini && rerankCfg.APIKey != "" {
		scorer, err := NewGeminiPairScorer(ctx, rerankCfg, logger)
		if err != nil {
			logger.Warn("Cross-encoder unavailable, continuing with embeddings only", "error", err.Error())
		} else {
			caps.PairScorer = scorer
		}
	}
	return caps, nil
}
