package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Engine
	v.SetDefault("engine.analysisTimeout", 2*time.Second)
	v.SetDefault("engine.maxSentences", 200)
	v.SetDefault("engine.weakThreshold", 0.45)
	v.SetDefault("engine.priorityBoost", 1.3)
	v.SetDefault("engine.floorWeight", 0.1)
	v.SetDefault("engine.crossEncoder.enabled", true)
	v.SetDefault("engine.keywordScanner.enabled", true)
	v.SetDefault("engine.lexicon.file", "")
	v.SetDefault("engine.lexicon.watch", false)
	v.SetDefault("engine.lexicon.debounceDelay", 500*time.Millisecond)

	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 10*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 2)

	// Embedding capability
	v.SetDefault("ai.embedding.provider", "")
	v.SetDefault("ai.embedding.model", "text-embedding-004")
	v.SetDefault("ai.embedding.apiKey", "")
	v.SetDefault("ai.embedding.batchSize", 100)
	v.SetDefault("ai.embedding.dimensions", 256)

	// Cross-encoder (re-rank) capability
	v.SetDefault("ai.rerank.provider", "")
	v.SetDefault("ai.rerank.model", "")
	v.SetDefault("ai.rerank.apiKey", "")
	v.SetDefault("ai.rerank.batchSize", 64)

	for _, op := range []string{"embedding", "rerank"} {
		v.SetDefault("ai."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.timeout", 30*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.serviceName", "resumatch")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
