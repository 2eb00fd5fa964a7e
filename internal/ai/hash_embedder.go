package ai

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

const defaultHashDimensions = 256

var hashTokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// HashEmbedder is a deterministic offline embedder. Each lowercased word is
// hashed into one of Dimensions buckets with a hash-derived sign, so texts
// sharing words point in similar directions. It needs no model and no
// network, which keeps the CLI usable without an API key.
type HashEmbedder struct {
	Dimensions int
}

// NewHashEmbedder creates a hashing embedder; dimensions <= 0 selects 256.
func NewHashEmbedder(dimensions int) HashEmbedder {
	if dimensions <= 0 {
		dimensions = defaultHashDimensions
	}
	return HashEmbedder{Dimensions: dimensions}
}

func (h HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	dims := h.Dimensions
	if dims <= 0 {
		dims = defaultHashDimensions
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec := make([]float64, dims)
		for _, word := range hashTokenPattern.FindAllString(strings.ToLower(text), -1) {
			hasher := fnv.New64a()
			_, _ = hasher.Write([]byte(word))
			sum := hasher.Sum64()
			sign := 1.0
			if sum>>63 == 1 {
				sign = -1
			}
			vec[sum%uint64(dims)] += sign
		}
		out[i] = vec
	}
	return out, nil
}
