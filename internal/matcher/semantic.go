package matcher

import (
	"context"
	"fmt"
	"math"

	"resumatch/internal/types"

	"golang.org/x/sync/errgroup"
)

// DefaultWeakThreshold is the best-match similarity below which a job
// sentence counts as a weak requirement.
const DefaultWeakThreshold = 0.45

// Embedder turns sentences into dense vectors. Vectors need not be normalised.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Pair is one (job sentence, resume sentence) input for a PairScorer.
type Pair struct {
	Job    string
	Resume string
}

// PairScorer is a cross-encoder: it returns one raw relevance logit per pair.
type PairScorer interface {
	ScorePairs(ctx context.Context, pairs []Pair) ([]float64, error)
}

// EmbeddingResult is the outcome of the embedding strategy.
type EmbeddingResult struct {
	Best             []float64 // best similarity per job sentence
	Score            float64   // mean of Best
	WeakRequirements []string
	Support          []types.Evidence
}

// EmbeddingMatch embeds both sides, builds the cosine matrix and keeps the
// best resume sentence for every job sentence. On ties the earliest resume
// sentence wins. With no sentences on either side the result has score 0,
// every job sentence weak and no support.
func EmbeddingMatch(ctx context.Context, embedder Embedder, resume, job []SentenceUnit, weakThreshold float64) (EmbeddingResult, error) {
	if len(resume) == 0 || len(job) == 0 {
		return degenerateEmbedding(job), nil
	}
	if embedder == nil {
		return degenerateEmbedding(job), fmt.Errorf("no embedder configured")
	}

	var resumeVecs, jobVecs [][]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := embedder.Embed(gctx, Texts(resume))
		if err != nil {
			return fmt.Errorf("embed resume sentences: %w", err)
		}
		resumeVecs = vecs
		return nil
	})
	g.Go(func() error {
		vecs, err := embedder.Embed(gctx, Texts(job))
		if err != nil {
			return fmt.Errorf("embed job sentences: %w", err)
		}
		jobVecs = vecs
		return nil
	})
	if err := g.Wait(); err != nil {
		return degenerateEmbedding(job), err
	}
	if len(resumeVecs) != len(resume) || len(jobVecs) != len(job) {
		return degenerateEmbedding(job), fmt.Errorf("embedder returned %d/%d vectors for %d/%d sentences",
			len(resumeVecs), len(jobVecs), len(resume), len(job))
	}

	resumeVecs = normalizeAll(resumeVecs)
	jobVecs = normalizeAll(jobVecs)

	result := EmbeddingResult{
		Best:             make([]float64, len(job)),
		WeakRequirements: []string{},
		Support:          make([]types.Evidence, len(job)),
	}
	sum := 0.0
	for j, jv := range jobVecs {
		bestIdx, best := 0, math.Inf(-1)
		for r, rv := range resumeVecs {
			if sim := dot(jv, rv); sim > best {
				bestIdx, best = r, sim
			}
		}
		result.Best[j] = best
		result.Support[j] = types.Evidence{
			JobSentence:    job[j].Text,
			ResumeSentence: resume[bestIdx].Text,
			Similarity:     best,
		}
		if best < weakThreshold {
			result.WeakRequirements = append(result.WeakRequirements, job[j].Text)
		}
		sum += best
	}
	result.Score = sum / float64(len(job))
	return result, nil
}

func degenerateEmbedding(job []SentenceUnit) EmbeddingResult {
	return EmbeddingResult{
		Best:             make([]float64, len(job)),
		WeakRequirements: Texts(job),
		Support:          []types.Evidence{},
	}
}

// WeightedScore averages the per-sentence bests using the lexical sentence
// weights. When the weights are unusable it falls back to the plain mean.
func (r EmbeddingResult) WeightedScore(weights []float64) float64 {
	if len(r.Best) == 0 {
		return 0
	}
	if len(weights) != len(r.Best) {
		return r.Score
	}
	num, den := 0.0, 0.0
	for i, b := range r.Best {
		num += weights[i] * b
		den += weights[i]
	}
	if den <= 0 {
		return r.Score
	}
	return num / den
}

// CrossEncoderStatus tags whether the cross-encoder produced a result.
type CrossEncoderStatus int

const (
	CrossEncoderUnavailable CrossEncoderStatus = iota
	CrossEncoderAvailable
)

func (s CrossEncoderStatus) String() string {
	if s == CrossEncoderAvailable {
		return "available"
	}
	return "unavailable"
}

// CrossEncoderResult is the outcome of the cross-encoder strategy. Reason is
// set when Status is CrossEncoderUnavailable.
type CrossEncoderResult struct {
	Status  CrossEncoderStatus
	Score   float64
	Support []types.Evidence
	Reason  error
}

func unavailable(reason error) CrossEncoderResult {
	return CrossEncoderResult{Status: CrossEncoderUnavailable, Reason: reason}
}

// CrossEncoderMatch scores every (job, resume) pair, job-major, squashes each
// logit into [-1, 1] via 2*sigmoid(x)-1 and keeps the best per job sentence.
// It never fails: any problem yields an Unavailable result.
func CrossEncoderMatch(ctx context.Context, scorer PairScorer, resume, job []SentenceUnit) CrossEncoderResult {
	if scorer == nil {
		return unavailable(fmt.Errorf("no cross-encoder configured"))
	}
	if len(resume) == 0 || len(job) == 0 {
		return unavailable(fmt.Errorf("no sentences to compare"))
	}

	pairs := make([]Pair, 0, len(job)*len(resume))
	for _, j := range job {
		for _, r := range resume {
			pairs = append(pairs, Pair{Job: j.Text, Resume: r.Text})
		}
	}

	logits, err := scorer.ScorePairs(ctx, pairs)
	if err != nil {
		return unavailable(err)
	}
	if len(logits) != len(pairs) {
		return unavailable(fmt.Errorf("cross-encoder returned %d scores for %d pairs", len(logits), len(pairs)))
	}

	result := CrossEncoderResult{
		Status:  CrossEncoderAvailable,
		Support: make([]types.Evidence, len(job)),
	}
	sum := 0.0
	for j := range job {
		row := logits[j*len(resume) : (j+1)*len(resume)]
		bestIdx := 0
		for r := 1; r < len(row); r++ {
			if row[r] > row[bestIdx] {
				bestIdx = r
			}
		}
		sim := squash(row[bestIdx])
		if math.IsNaN(sim) {
			return unavailable(fmt.Errorf("cross-encoder returned NaN"))
		}
		result.Support[j] = types.Evidence{
			JobSentence:    job[j].Text,
			ResumeSentence: resume[bestIdx].Text,
			Similarity:     sim,
		}
		sum += sim
	}
	result.Score = sum / float64(len(job))
	return result
}

// squash maps a logit into [-1, 1].
func squash(x float64) float64 {
	return 2/(1+math.Exp(-x)) - 1
}

// SemanticResult is the fused semantic signal.
type SemanticResult struct {
	Score            float64
	WeakRequirements []string
	Support          []types.Evidence
	CrossEncoderUsed bool
}

// Fuse combines the weighted embedding score with the cross-encoder result.
// An available cross-encoder with a non-zero aggregate is averaged in and
// its evidence replaces the embedding evidence. Weak requirements always
// come from the embedding strategy.
func Fuse(emb EmbeddingResult, weightedScore float64, cross CrossEncoderResult) SemanticResult {
	result := SemanticResult{
		Score:            weightedScore,
		WeakRequirements: emb.WeakRequirements,
		Support:          emb.Support,
	}
	if cross.Status == CrossEncoderAvailable && cross.Score != 0 {
		result.Score = (weightedScore + cross.Score) / 2
		result.Support = cross.Support
		result.CrossEncoderUsed = true
	}
	return result
}

// normalizeAll returns unit-length copies; zero vectors stay zero.
func normalizeAll(vecs [][]float64) [][]float64 {
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		norm := 0.0
		for _, x := range v {
			norm += x * x
		}
		u := make([]float64, len(v))
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k, x := range v {
				u[k] = x / norm
			}
		}
		out[i] = u
	}
	return out
}

func dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
