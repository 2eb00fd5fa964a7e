package ai

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const embeddingTaskType = "SEMANTIC_SIMILARITY"

// GeminiEmbedder embeds sentences with a Gemini embedding model
type GeminiEmbedder struct {
	*geminiModel
	breaker *Breaker[*genai.EmbedContentResponse]
}

// NewGeminiEmbedder creates an embedder for the embedding capability
func NewGeminiEmbedder(ctx context.Context, cfg config.OperationAIConfig, logger *errors.Logger) (*GeminiEmbedder, error) {
	model, err := newGeminiModel(ctx, cfg, "Embedding", logger)
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedder{
		geminiModel: model,
		breaker:     NewBreaker[*genai.EmbedContentResponse]("Embedding", cfg.CircuitBreaker, logger),
	}, nil
}

// Embed returns one vector per text, in order. Texts are sent in batches of
// the configured size.
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	ctx, span := otel.Tracer("resumatch.ai.gemini").Start(ctx, "gemini.embed")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.texts", len(texts)),
	)

	embedConfig := &genai.EmbedContentConfig{TaskType: embeddingTaskType}
	if g.config.Dimensions > 0 {
		dims := int32(g.config.Dimensions)
		embedConfig.OutputDimensionality = &dims
	}

	vectors := make([][]float64, 0, len(texts))
	for _, b := range batches(len(texts), g.config.BatchSize) {
		contents := make([]*genai.Content, 0, b[1]-b[0])
		for _, text := range texts[b[0]:b[1]] {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		resp, err := g.breaker.Execute(func() (*genai.EmbedContentResponse, error) {
			return withRetry(ctx, g.retry, "embed", func() (*genai.EmbedContentResponse, error) {
				callCtx, cancel := g.callContext(ctx)
				defer cancel()
				return g.client.Models.EmbedContent(callCtx, g.config.Model, contents, embedConfig)
			})
		})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to embed sentences", err)
		}
		if len(resp.Embeddings) != len(contents) {
			err := fmt.Errorf("embedding model returned %d vectors for %d texts", len(resp.Embeddings), len(contents))
			span.RecordError(err)
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Unexpected embedding response", err)
		}

		for _, emb := range resp.Embeddings {
			vec := make([]float64, len(emb.Values))
			for i, v := range emb.Values {
				vec[i] = float64(v)
			}
			vectors = append(vectors, vec)
		}
	}

	span.SetAttributes(attribute.Bool("success", true))
	return vectors, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiEmbedder) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.breaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.breaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}
