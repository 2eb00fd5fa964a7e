package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RESUMATCH_AI_APIKEY", "")
	path := writeConfigFile(t, "app:\n  logLevel: warn\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Engine.AnalysisTimeout != 2*time.Second {
		t.Errorf("AnalysisTimeout = %v, want 2s", cfg.Engine.AnalysisTimeout)
	}
	if cfg.Engine.MaxSentences != 200 {
		t.Errorf("MaxSentences = %d, want 200", cfg.Engine.MaxSentences)
	}
	if cfg.Engine.WeakThreshold != 0.45 {
		t.Errorf("WeakThreshold = %v, want 0.45", cfg.Engine.WeakThreshold)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.App.LogLevel)
	}
	if !cfg.UseLocalModels() {
		t.Error("UseLocalModels() = false without an API key")
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("RESUMATCH_ENGINE_ANALYSISTIMEOUT", "5s")
	t.Setenv("RESUMATCH_AI_APIKEY", "env-key")
	path := writeConfigFile(t, "engine:\n  crossEncoder:\n    enabled: false\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Engine.AnalysisTimeout != 5*time.Second {
		t.Errorf("AnalysisTimeout = %v, want 5s", cfg.Engine.AnalysisTimeout)
	}
	if cfg.Engine.CrossEncoder.Enabled {
		t.Error("CrossEncoder.Enabled = true, want false from file")
	}
	if got := cfg.GetEmbeddingConfig().APIKey; got != "env-key" {
		t.Errorf("embedding APIKey = %q, want env-key", got)
	}
	if cfg.UseLocalModels() {
		t.Error("UseLocalModels() = true with an API key")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() expected error for missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Engine: EngineConfig{
				AnalysisTimeout: 2 * time.Second,
				MaxSentences:    200,
				WeakThreshold:   0.45,
				PriorityBoost:   1.3,
				FloorWeight:     0.1,
			},
			AI:     AIConfig{Provider: ProviderGemini, Timeout: time.Second},
			Server: ServerConfig{Port: "8080"},
			App:    AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "text"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: true},
		{name: "zero analysis timeout", mutate: func(c *Config) { c.Engine.AnalysisTimeout = 0 }, wantErr: true},
		{name: "boost below one", mutate: func(c *Config) { c.Engine.PriorityBoost = 0.5 }, wantErr: true},
		{name: "weak threshold out of range", mutate: func(c *Config) { c.Engine.WeakThreshold = 2 }, wantErr: true},
		{name: "unsupported default format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: true},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOperationFallbacks(t *testing.T) {
	cfg := &Config{AI: AIConfig{
		Provider:   ProviderGemini,
		Model:      "gemini-2.0-flash",
		Timeout:    3 * time.Second,
		APIKey:     "global",
		MaxRetries: 4,
		Embedding:  OperationAIConfig{Model: "text-embedding-004"},
	}}

	emb := cfg.GetEmbeddingConfig()
	if emb.Model != "text-embedding-004" || emb.APIKey != "global" || *emb.MaxRetries != 4 {
		t.Errorf("embedding config = %+v", emb)
	}
	if emb.BatchSize != 100 {
		t.Errorf("embedding BatchSize = %d, want 100", emb.BatchSize)
	}

	rerank := cfg.GetRerankConfig()
	if rerank.Model != "gemini-2.0-flash" || *rerank.Timeout != 3*time.Second {
		t.Errorf("rerank config = %+v", rerank)
	}
}
