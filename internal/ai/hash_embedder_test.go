package ai

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}

func TestHashEmbedder(t *testing.T) {
	emb := NewHashEmbedder(0)
	assert.Equal(t, defaultHashDimensions, emb.Dimensions)

	vecs, err := emb.Embed(context.Background(), []string{
		"Go and SQL",
		"sql AND go",
		"Python Python",
		"python",
		"",
		"a",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 6)
	for _, v := range vecs {
		assert.Len(t, v, defaultHashDimensions)
	}

	assert.Equal(t, vecs[0], vecs[1])
	assert.InDelta(t, 1.0, cosine(vecs[2], vecs[3]), 1e-9)
	assert.Zero(t, cosine(vecs[4], vecs[0]))
	assert.Equal(t, make([]float64, defaultHashDimensions), vecs[5])
}

func TestHashEmbedderIsDeterministic(t *testing.T) {
	emb := NewHashEmbedder(32)
	a, err := emb.Embed(context.Background(), []string{"Built data pipelines in Go"})
	require.NoError(t, err)
	b, err := emb.Embed(context.Background(), []string{"Built data pipelines in Go"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashEmbedderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := HashEmbedder{}.Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
