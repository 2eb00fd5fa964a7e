package ai

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// geminiModel holds what the Gemini-backed capabilities share: the client,
// the capability configuration, the model info breaker and the retry policy.
type geminiModel struct {
	client       *genai.Client
	config       config.OperationAIConfig
	capability   string
	modelBreaker *Breaker[*genai.Model]
	retry        retryPolicy
	logger       *errors.Logger
}

func newGeminiModel(ctx context.Context, cfg config.OperationAIConfig, capability string, logger *errors.Logger) (*geminiModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("No API key configured for %s", capability), nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &geminiModel{
		client:       client,
		config:       cfg,
		capability:   capability,
		modelBreaker: newModelBreaker[*genai.Model](capability, cfg.CircuitBreaker, logger),
		retry:        newRetryPolicy(cfg.MaxRetries, logger),
		logger:       logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *geminiModel) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:       g.config.Model,
		Capability: g.capability,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"capability", g.capability,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"capability", g.capability,
		"display_name", info.DisplayName,
		"version", info.Version)

	return info
}

// callContext bounds a single model call by the configured timeout
func (g *geminiModel) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config.Timeout == nil || *g.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, *g.config.Timeout)
}

// batches splits n items into consecutive [start, end) ranges of at most size
func batches(n, size int) [][2]int {
	if size <= 0 {
		size = n
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
