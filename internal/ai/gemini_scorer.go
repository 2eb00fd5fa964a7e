package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/matcher"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GeminiPairScorer uses a generative Gemini model as a cross-encoder: it
// reads every (job, resume) pair and returns one relevance logit per pair.
type GeminiPairScorer struct {
	*geminiModel
	breaker *Breaker[*genai.GenerateContentResponse]
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// NewGeminiPairScorer creates a pair scorer for the rerank capability
func NewGeminiPairScorer(ctx context.Context, cfg config.OperationAIConfig, logger *errors.Logger) (*GeminiPairScorer, error) {
	model, err := newGeminiModel(ctx, cfg, "Rerank", logger)
	if err != nil {
		return nil, err
	}
	return &GeminiPairScorer{
		geminiModel: model,
		breaker:     NewBreaker[*genai.GenerateContentResponse]("Rerank", cfg.CircuitBreaker, logger),
	}, nil
}

// ScorePairs returns one logit per pair, in order
func (g *GeminiPairScorer) ScorePairs(ctx context.Context, pairs []matcher.Pair) ([]float64, error) {
	ctx, span := otel.Tracer("resumatch.ai.gemini").Start(ctx, "gemini.rerank")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.pairs", len(pairs)),
	)

	genaiConfig := buildRerankConfig()
	scores := make([]float64, 0, len(pairs))
	var inputTokens, outputTokens int64

	for _, b := range batches(len(pairs), g.config.BatchSize) {
		batch := pairs[b[0]:b[1]]
		prompt := buildRerankPrompt(batch)

		result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
			return withRetry(ctx, g.retry, "rerank", func() (*genai.GenerateContentResponse, error) {
				callCtx, cancel := g.callContext(ctx)
				defer cancel()
				return g.client.Models.GenerateContent(callCtx, g.config.Model, genai.Text(prompt), genaiConfig)
			})
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to score sentence pairs", err)
		}

		batchScores, err := parseScores(result.Text(), len(batch))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to parse rerank response", err)
		}
		scores = append(scores, batchScores...)

		if usage := extractTokenUsage(result); usage != nil {
			inputTokens += usage.InputTokens
			outputTokens += usage.OutputTokens
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", inputTokens),
		attribute.Int64("ai.tokens.output", outputTokens),
		attribute.Bool("success", true),
	)
	return scores, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiPairScorer) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.breaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.breaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// buildRerankConfig creates the schema for rerank requests
func buildRerankConfig() *genai.GenerateContentConfig {
	temperature := float32(0)
	return &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(rerankSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"scores": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeNumber},
				},
			},
			Required: []string{"scores"},
		},
	}
}

func parseScores(text string, want int) ([]float64, error) {
	var resp rerankResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, err
	}
	if len(resp.Scores) != want {
		return nil, fmt.Errorf("got %d scores for %d pairs", len(resp.Scores), want)
	}
	return resp.Scores, nil
}
