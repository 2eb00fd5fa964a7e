package server

import (
	"context"
	"time"

	"resumatch/internal/ai"
	"resumatch/internal/config"
	resumatchErrors "resumatch/internal/errors"
	"resumatch/internal/matcher"
	"resumatch/internal/observability"
	"resumatch/internal/types"

	"github.com/go-playground/validator/v10"
)

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
	Role           string `json:"role,omitempty" validate:"omitempty,max=100"`
	Seniority      string `json:"seniority,omitempty" validate:"omitempty,max=50"`
}

// SkillsRequest represents the request body for the skills endpoint
type SkillsRequest struct {
	Text string `json:"text" validate:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Analyzer is the scoring engine as seen by the HTTP layer. *matcher.Engine
// implements it.
type Analyzer interface {
	Analyze(ctx context.Context, input types.AnalysisInput) (*types.AnalysisResult, error)
	ExtractSkills(text string) matcher.SkillSet
}

// ModelReporter exposes model readiness and breaker state. *ai.ModelCache
// implements it.
type ModelReporter interface {
	GetModelInfo(ctx context.Context) []*ai.ModelInfo
	ai.StatsReporter
}

// Dependencies are the collaborators the server routes requests to.
// Models, Lexicons and Observability are optional.
type Dependencies struct {
	Analyzer      Analyzer
	Models        ModelReporter
	Lexicons      matcher.LexiconSource
	Observability *observability.ObservabilityManager
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	analyzer  Analyzer
	models    ModelReporter
	lexicons  matcher.LexiconSource
	om        *observability.ObservabilityManager
	validate  *validator.Validate
	startedAt time.Time

	Logger *resumatchErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServerConfig derives the server settings from the application config.
func NewServerConfig(appCfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		APIKeys:        appCfg.Server.APIKeys,
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: appCfg.Server.MaxRequestSize,
		RateLimit:      &appCfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *resumatchErrors.Logger) *Server {
	if logger == nil {
		logger = resumatchErrors.NewNopLogger()
	}

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewLimiterManager(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, cfg.RateLimit.Window, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		analyzer:       deps.Analyzer,
		models:         deps.Models,
		lexicons:       deps.Lexicons,
		om:             deps.Observability,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		startedAt:      time.Now(),
		Logger:         logger,
	}
}
