// Package matcher scores a resume against a job description.
//
// The pipeline extracts and canonicalizes skills, segments both documents
// into sentences, weights job skills and sentences with TF-IDF, matches
// sentences semantically (embeddings, optionally fused with a cross-encoder),
// rates ATS friendliness and aggregates everything into a 0-100 score with a
// breakdown, prioritized missing skills and suggestions.
package matcher

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"resumatch/internal/errors"
	"resumatch/internal/lexicon"
	"resumatch/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultJobTitle = "Target Position"
	previewLength   = 100
)

// LexiconSource hands out the current lexicon snapshot. *lexicon.Store
// implements it.
type LexiconSource interface {
	Load() *lexicon.Lexicon
}

// Options tunes the engine.
type Options struct {
	Timeout       time.Duration // 0 means no engine-imposed deadline
	MaxSentences  int
	WeakThreshold float64
	PriorityBoost float64
	FloorWeight   float64
	CrossEncoder  bool
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		Timeout:       2 * time.Second,
		MaxSentences:  DefaultMaxSentences,
		WeakThreshold: DefaultWeakThreshold,
		PriorityBoost: DefaultPriorityBoost,
		FloorWeight:   DefaultFloorWeight,
		CrossEncoder:  true,
	}
}

// Dependencies are the capabilities the engine consumes. Only Lexicons is
// required; a nil Embedder yields a zero semantic score, a nil PairScorer
// disables the cross-encoder and a nil Counter falls back to substring
// counting.
type Dependencies struct {
	Lexicons   LexiconSource
	Embedder   Embedder
	PairScorer PairScorer
	Recognizer EntityRecognizer
	Counter    KeywordCounter
	Logger     *errors.Logger
}

// Engine is safe for concurrent use. It holds no per-request state.
type Engine struct {
	opts Options
	deps Dependencies
}

// NewEngine creates an engine. A nil lexicon source uses the built-in tables.
func NewEngine(opts Options, deps Dependencies) *Engine {
	if deps.Lexicons == nil {
		deps.Lexicons = lexicon.NewStore(lexicon.Default())
	}
	if deps.Logger == nil {
		deps.Logger = errors.NewNopLogger()
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	return &Engine{opts: opts, deps: deps}
}

// ExtractSkills returns the canonical skills found in text.
func (e *Engine) ExtractSkills(text string) SkillSet {
	return NewExtractor(e.deps.Lexicons.Load(), e.deps.Recognizer).Extract(text)
}

// Analyze scores input.ResumeText against input.JobDescription.
//
// Blank input fails with a validation error before any work is done. When
// the deadline passes, partial work is discarded and a timeout error is
// returned. Model failures are absorbed: the embedding strategy degrades to a
// zero score and the cross-encoder is skipped.
func (e *Engine) Analyze(ctx context.Context, input types.AnalysisInput) (*types.AnalysisResult, error) {
	if strings.TrimSpace(input.ResumeText) == "" || strings.TrimSpace(input.JobDescription) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			"Resume text and job description are required", nil)
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	ctx, span := otel.Tracer("resumatch.matcher").Start(ctx, "matcher.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("resume.length", len(input.ResumeText)),
		attribute.Int("job.length", len(input.JobDescription)),
		attribute.String("role", input.Role),
		attribute.String("seniority", input.Seniority),
	)

	result, err := e.analyze(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("score", result.Score),
		attribute.Bool("cross_encoder_used", result.CrossEncoderUsed),
	)
	return result, nil
}

func (e *Engine) analyze(ctx context.Context, input types.AnalysisInput) (*types.AnalysisResult, error) {
	logger := e.deps.Logger
	lex := e.deps.Lexicons.Load()
	extractor := NewExtractor(lex, e.deps.Recognizer)

	jobSkills := extractor.Extract(input.JobDescription)
	resumeSkills := extractor.Extract(input.ResumeText)
	resumeSentences := Segment(input.ResumeText, SourceResume, e.opts.MaxSentences)
	jobSentences := Segment(input.JobDescription, SourceJob, e.opts.MaxSentences)

	logger.Debug("Extracted skills and sentences",
		"job_skills", len(jobSkills),
		"resume_skills", len(resumeSkills),
		"job_sentences", len(jobSentences),
		"resume_sentences", len(resumeSentences),
		"lexicon", lex.Source())

	priority := lex.PriorityTerms(input.Role, input.Seniority)
	weigher := Weigher{PriorityBoost: e.opts.PriorityBoost, FloorWeight: e.opts.FloorWeight}
	skillWeights, sentenceWeights := weigher.Weigh(jobSkills, jobSentences, input.JobDescription, priority)

	if err := contextError(ctx); err != nil {
		return nil, err
	}

	emb, err := EmbeddingMatch(ctx, e.deps.Embedder, resumeSentences, jobSentences, e.opts.WeakThreshold)
	if ctxErr := contextError(ctx); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		logger.Warn("Embedding match failed, using zero semantic score", "error", err.Error())
	}

	cross := unavailable(nil)
	if e.opts.CrossEncoder && e.deps.PairScorer != nil {
		cross = CrossEncoderMatch(ctx, e.deps.PairScorer, resumeSentences, jobSentences)
		if ctxErr := contextError(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		if cross.Status == CrossEncoderUnavailable && cross.Reason != nil {
			logger.Debug("Cross-encoder unavailable, using embeddings only", "reason", cross.Reason.Error())
		}
	}

	semantic := Fuse(emb, emb.WeightedScore(sentenceWeights), cross)

	ats := ATSScorer{Counter: e.deps.Counter}
	atsScore, atsSuggestions := ats.Score(input.ResumeText, jobSkills)

	skillScore, matched, missing := coverage(jobSkills, resumeSkills, skillWeights)
	missingSkills := prioritizeMissing(missing, input.JobDescription)

	breakdown := types.ScoreBreakdown{
		SkillMatch:         round2(skillScore),
		SemanticSimilarity: round2(semantic.Score * semanticMax),
		ATSOptimization:    round2(atsScore),
	}

	return &types.AnalysisResult{
		Score:            round2(breakdown.Total()),
		Breakdown:        breakdown,
		MatchedSkills:    matched,
		MissingSkills:    missingSkills,
		Suggestions:      buildSuggestions(missingSkills, atsSuggestions),
		WeakRequirements: semantic.WeakRequirements,
		Evidence:         semantic.Support,
		ResumePreview:    preview(input.ResumeText),
		JobTitle:         jobTitle(input.Role),
		CrossEncoderUsed: semantic.CrossEncoderUsed,
	}, nil
}

func contextError(ctx context.Context) error {
	switch err := ctx.Err(); err {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return errors.NewTimeoutError(errors.ErrCodeAnalysisTimeout, "Analysis timed out", err)
	default:
		return errors.NewInternalError(errors.ErrCodeAnalysisCanceled, "Analysis canceled", err)
	}
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength]) + "..."
}

func jobTitle(role string) string {
	if strings.TrimSpace(role) == "" {
		return defaultJobTitle
	}
	return role
}
