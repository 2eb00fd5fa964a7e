package matcher

import (
	"context"
	"fmt"
)

// mapEmbedder returns fixed vectors per sentence and zeros for unknown ones.
type mapEmbedder struct {
	vectors map[string][]float64
	dim     int
}

func (m mapEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := m.vectors[t]; ok {
			out[i] = append([]float64(nil), v...)
			continue
		}
		out[i] = make([]float64, m.dim)
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("model unavailable")
}

// blockingEmbedder waits for the context to end.
type blockingEmbedder struct{}

func (blockingEmbedder) Embed(ctx context.Context, _ []string) ([][]float64, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixedScorer struct {
	logits []float64
	err    error
	calls  *int
}

func (f fixedScorer) ScorePairs(_ context.Context, pairs []Pair) ([]float64, error) {
	if f.calls != nil {
		*f.calls++
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.logits, nil
}

type fakeRecognizer []Entity

func (f fakeRecognizer) Recognize(string) []Entity { return f }

// pythonFixture maps the sentences of the resume "I know Python. I have data"
// and the job "Looking for Python developer. Must know JavaScript".
func pythonFixture() mapEmbedder {
	return mapEmbedder{dim: 3, vectors: map[string][]float64{
		"I know Python.":                {1, 0, 0},
		"I have data":                   {0, 1, 0},
		"Looking for Python developer.": {1, 0, 0},
		"Must know JavaScript":          {0, 0, 1},
	}}
}
