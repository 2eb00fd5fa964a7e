package matcher

import (
	"context"
	"fmt"
	"math"
	"testing"

	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingMatch(t *testing.T) {
	resume := Segment("I know Python. I have data", SourceResume, 0)
	job := Segment("Looking for Python developer. Must know JavaScript", SourceJob, 0)

	result, err := EmbeddingMatch(context.Background(), pythonFixture(), resume, job, DefaultWeakThreshold)
	require.NoError(t, err)

	require.Len(t, result.Support, 2)
	assert.Greater(t, result.Support[0].Similarity, 0.9)
	assert.Equal(t, "I know Python.", result.Support[0].ResumeSentence)
	assert.Contains(t, result.WeakRequirements, "Must know JavaScript")
	assert.NotContains(t, result.WeakRequirements, "Looking for Python developer.")
	assert.InDelta(t, 0.5, result.Score, 1e-9)
}

func TestEmbeddingMatchTieKeepsFirstResumeSentence(t *testing.T) {
	emb := mapEmbedder{dim: 2, vectors: map[string][]float64{
		"alpha": {1, 0},
		"beta":  {2, 0}, // same direction after normalisation
		"query": {1, 0},
	}}
	resume := []SentenceUnit{{Text: "alpha"}, {Text: "beta"}}
	job := []SentenceUnit{{Text: "query"}}

	result, err := EmbeddingMatch(context.Background(), emb, resume, job, DefaultWeakThreshold)
	require.NoError(t, err)
	assert.Equal(t, "alpha", result.Support[0].ResumeSentence)
	assert.InDelta(t, 1.0, result.Support[0].Similarity, 1e-9)
}

func TestEmbeddingMatchDegenerate(t *testing.T) {
	job := Segment("Must know Go. Must know SQL.", SourceJob, 0)

	result, err := EmbeddingMatch(context.Background(), pythonFixture(), nil, job, DefaultWeakThreshold)
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"Must know Go.", "Must know SQL."}, result.WeakRequirements)
	assert.Empty(t, result.Support)

	result, err = EmbeddingMatch(context.Background(), pythonFixture(), job, nil, DefaultWeakThreshold)
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.Empty(t, result.WeakRequirements)
}

func TestEmbeddingMatchFailureDegrades(t *testing.T) {
	resume := Segment("I know Python.", SourceResume, 0)
	job := Segment("Must know Go.", SourceJob, 0)

	result, err := EmbeddingMatch(context.Background(), failingEmbedder{}, resume, job, DefaultWeakThreshold)
	assert.Error(t, err)
	assert.Zero(t, result.Score)
	assert.Equal(t, []string{"Must know Go."}, result.WeakRequirements)

	_, err = EmbeddingMatch(context.Background(), nil, resume, job, DefaultWeakThreshold)
	assert.Error(t, err)
}

func TestWeightedScore(t *testing.T) {
	r := EmbeddingResult{Best: []float64{1, 0}, Score: 0.5}
	assert.InDelta(t, 0.75, r.WeightedScore([]float64{3, 1}), 1e-9)
	assert.InDelta(t, 0.5, r.WeightedScore([]float64{0, 0}), 1e-9)
	assert.InDelta(t, 0.5, r.WeightedScore([]float64{1}), 1e-9)
	assert.Zero(t, EmbeddingResult{}.WeightedScore(nil))
}

func TestCrossEncoderMatchBounds(t *testing.T) {
	resume := Segment("A. B.", SourceResume, 0)
	job := Segment("C. D.", SourceJob, 0)
	scorer := fixedScorer{logits: []float64{-2, -3, -3, 5}}

	result := CrossEncoderMatch(context.Background(), scorer, resume, job)
	require.Equal(t, CrossEncoderAvailable, result.Status)
	require.Len(t, result.Support, 2)

	negative := false
	for _, ev := range result.Support {
		assert.GreaterOrEqual(t, ev.Similarity, -1.0)
		assert.LessOrEqual(t, ev.Similarity, 1.0)
		negative = negative || ev.Similarity < 0
	}
	assert.True(t, negative)
	assert.GreaterOrEqual(t, result.Score, -1.0)
	assert.LessOrEqual(t, result.Score, 1.0)

	assert.Equal(t, "A.", result.Support[0].ResumeSentence)
	assert.InDelta(t, math.Tanh(-1), result.Support[0].Similarity, 1e-9)
	assert.Equal(t, "B.", result.Support[1].ResumeSentence)
	assert.InDelta(t, math.Tanh(2.5), result.Support[1].Similarity, 1e-9)
}

func TestCrossEncoderMatchUnavailable(t *testing.T) {
	resume := Segment("A. B.", SourceResume, 0)
	job := Segment("C.", SourceJob, 0)

	tests := []struct {
		name   string
		scorer PairScorer
		resume []SentenceUnit
	}{
		{name: "no scorer", scorer: nil, resume: resume},
		{name: "scorer error", scorer: fixedScorer{err: fmt.Errorf("boom")}, resume: resume},
		{name: "wrong score count", scorer: fixedScorer{logits: []float64{1}}, resume: resume},
		{name: "no resume sentences", scorer: fixedScorer{logits: []float64{}}, resume: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CrossEncoderMatch(context.Background(), tt.scorer, tt.resume, job)
			assert.Equal(t, CrossEncoderUnavailable, result.Status)
			assert.Error(t, result.Reason)
			assert.Equal(t, "unavailable", result.Status.String())
		})
	}
}

func TestFuse(t *testing.T) {
	emb := EmbeddingResult{
		WeakRequirements: []string{"weak"},
		Support:          []types.Evidence{{JobSentence: "j", ResumeSentence: "embedding"}},
	}
	cross := CrossEncoderResult{
		Status:  CrossEncoderAvailable,
		Score:   0.4,
		Support: []types.Evidence{{JobSentence: "j", ResumeSentence: "cross"}},
	}

	fused := Fuse(emb, 0.8, cross)
	assert.InDelta(t, 0.6, fused.Score, 1e-9)
	assert.True(t, fused.CrossEncoderUsed)
	assert.Equal(t, "cross", fused.Support[0].ResumeSentence)
	assert.Equal(t, []string{"weak"}, fused.WeakRequirements)

	cross.Score = 0
	fused = Fuse(emb, 0.8, cross)
	assert.InDelta(t, 0.8, fused.Score, 1e-9)
	assert.False(t, fused.CrossEncoderUsed)
	assert.Equal(t, "embedding", fused.Support[0].ResumeSentence)

	fused = Fuse(emb, 0.8, unavailable(fmt.Errorf("down")))
	assert.InDelta(t, 0.8, fused.Score, 1e-9)
	assert.False(t, fused.CrossEncoderUsed)
}
