package cli

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/observability"
	"resumatch/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the matching engine.

Available endpoints:
- POST /analyze: Score a resume against a job description
- POST /skills: Extract canonical skills from a text
- GET /health: Health check with model status
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

var serveFlags struct {
	port    string
	host    string
	offline bool
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().BoolVar(&serveFlags.offline, "offline", false, "Use the local embedder and skip hosted models")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if serveFlags.port != "" {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.host != "" {
		cfg.Server.Host = serveFlags.host
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	rt, err := newRuntime(cfg, logger, runtimeOptions{
		offline: serveFlags.offline,
		watch:   true,
		metrics: om.GetMetrics(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.LogError(err, "Failed to stop lexicon watcher")
		}
	}()

	srv := server.NewServer(cfg, server.NewServerConfig(cfg, Version), server.Dependencies{
		Analyzer:      rt.engine,
		Models:        rt.models,
		Lexicons:      rt.lexicons,
		Observability: om,
	}, logger)
	return srv.Start(cmd.Context())
}
