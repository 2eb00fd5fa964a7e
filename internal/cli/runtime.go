package cli

import (
	"context"
	"fmt"

	"resumatch/internal/ai"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/keyword"
	"resumatch/internal/lexicon"
	"resumatch/internal/matcher"
	"resumatch/internal/observability"
)

// runtime is the scoring stack shared by the commands: the lexicon snapshot
// store, the lazily loaded model capabilities and the engine built on them.
type runtime struct {
	engine   *matcher.Engine
	models   *ai.ModelCache
	lexicons *lexicon.Store
	watcher  *lexicon.Watcher
	logger   *errors.Logger
}

type runtimeOptions struct {
	offline bool
	watch   bool // honour engine.lexicon.watch
	metrics *observability.Metrics
}

func newRuntime(cfg *config.Config, logger *errors.Logger, opts runtimeOptions) (*runtime, error) {
	lex := lexicon.Default()
	lexiconFile := cfg.Engine.Lexicon.File
	if lexiconFile != "" {
		loaded, err := lexicon.LoadFile(lexiconFile)
		if err != nil {
			return nil, err
		}
		lex = loaded
		logger.Info("Loaded lexicon", "file", lexiconFile, "patterns", len(lex.Patterns()))
	}

	rt := &runtime{
		lexicons: lexicon.NewStore(lex),
		models:   ai.NewModelCache(cfg, opts.offline, logger),
		logger:   logger,
	}

	if opts.watch && lexiconFile != "" && cfg.Engine.Lexicon.Watch {
		metrics := opts.metrics
		rt.watcher = lexicon.NewWatcher(lexiconFile, rt.lexicons, cfg.Engine.Lexicon.DebounceDelay, logger,
			func(_ *lexicon.Lexicon, err error) {
				metrics.RecordLexiconReload(context.Background(), err == nil)
			})
		if err := rt.watcher.Start(); err != nil {
			return nil, fmt.Errorf("failed to watch lexicon file: %w", err)
		}
	}

	deps := matcher.Dependencies{
		Lexicons: rt.lexicons,
		Embedder: rt.models,
		Logger:   logger,
	}
	if cfg.Engine.CrossEncoder.Enabled && !opts.offline {
		deps.PairScorer = rt.models
	}
	if cfg.Engine.KeywordScanner.Enabled {
		deps.Counter = keyword.Scanner{}
	}

	rt.engine = matcher.NewEngine(engineOptions(cfg.Engine), deps)
	return rt, nil
}

func engineOptions(cfg config.EngineConfig) matcher.Options {
	opts := matcher.DefaultOptions()
	opts.Timeout = cfg.AnalysisTimeout
	opts.CrossEncoder = cfg.CrossEncoder.Enabled
	if cfg.MaxSentences > 0 {
		opts.MaxSentences = cfg.MaxSentences
	}
	if cfg.WeakThreshold > 0 {
		opts.WeakThreshold = cfg.WeakThreshold
	}
	if cfg.PriorityBoost > 0 {
		opts.PriorityBoost = cfg.PriorityBoost
	}
	if cfg.FloorWeight > 0 {
		opts.FloorWeight = cfg.FloorWeight
	}
	return opts
}

// Close stops the lexicon watcher if one is running.
func (rt *runtime) Close() error {
	if rt.watcher == nil {
		return nil
	}
	return rt.watcher.Stop()
}
