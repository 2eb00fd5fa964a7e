package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
}

// GetEmbeddingConfig returns the embedding capability configuration with fallback to global config
func (c *Config) GetEmbeddingConfig() OperationAIConfig {
	config := c.AI.Embedding
	c.applyOperationDefaults(&config)
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return config
}

// GetRerankConfig returns the cross-encoder configuration with fallback to global config
func (c *Config) GetRerankConfig() OperationAIConfig {
	config := c.AI.Rerank
	c.applyOperationDefaults(&config)
	if config.BatchSize <= 0 {
		config.BatchSize = 64
	}
	return config
}

// UseLocalModels reports whether no hosted model can be reached and the
// deterministic local embedder should be used instead.
func (c *Config) UseLocalModels() bool {
	emb := c.GetEmbeddingConfig()
	return emb.Provider == ProviderLocal || emb.APIKey == ""
}
