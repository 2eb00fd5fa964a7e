package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	fmt.Printf("resumatch %s listening on %s:%s\n", s.Version, s.Host, s.Port)
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displayModelInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health   - Health check with model status")
	fmt.Println("  GET  /stats    - Server statistics")
	fmt.Println("  POST /analyze  - Score a resume against a job description")
	fmt.Println("  POST /skills   - Extract canonical skills from text")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /analyze and /skills")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayModelInfo shows which scoring capabilities are configured
func (s *Server) displayModelInfo() {
	if s.AppConfig == nil {
		return
	}
	if s.AppConfig.UseLocalModels() {
		fmt.Println("Models: LOCAL (hashed embeddings, cross-encoder disabled)")
		return
	}
	emb := s.AppConfig.GetEmbeddingConfig()
	fmt.Printf("Models: %s embeddings via %s\n", emb.Model, emb.Provider)
	if s.AppConfig.Engine.CrossEncoder.Enabled {
		fmt.Printf("  - Cross-encoder re-ranking with %s\n", s.AppConfig.GetRerankConfig().Model)
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
