package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumatch/internal/ai"
	"resumatch/internal/config"
	"resumatch/internal/errors"
	"resumatch/internal/lexicon"
	"resumatch/internal/matcher"
	"resumatch/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	err error
}

func (a stubAnalyzer) Analyze(ctx context.Context, input types.AnalysisInput) (*types.AnalysisResult, error) {
	return nil, a.err
}

func (a stubAnalyzer) ExtractSkills(text string) matcher.SkillSet { return nil }

type stubModels struct {
	infos []*ai.ModelInfo
}

func (m stubModels) GetModelInfo(ctx context.Context) []*ai.ModelInfo { return m.infos }

func (m stubModels) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"loaded": true, "mode": "test"}
}

func newTestServer(t *testing.T, cfg ServerConfig, deps Dependencies) http.Handler {
	t.Helper()
	if deps.Analyzer == nil {
		deps.Analyzer = matcher.NewEngine(matcher.DefaultOptions(), matcher.Dependencies{})
	}
	s := NewServer(&config.Config{}, cfg, deps, errors.NewNopLogger())
	t.Cleanup(s.cleanupRateLimiter)
	return s.Handler()
}

func postJSON(h http.Handler, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{Version: "test"}, Dependencies{})

	rec := postJSON(h, "/analyze", `{"resumeText":"I build services in Python and SQL.","jobDescription":"We need Python experience.","role":"Backend Engineer"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	_, err := uuid.Parse(result.ID)
	assert.NoError(t, err)
	assert.Contains(t, result.MatchedSkills, "Python")
	assert.Greater(t, result.Score, 0.0)
	assert.GreaterOrEqual(t, len(result.Suggestions), 3)
	assert.Equal(t, "Backend Engineer", result.JobTitle)
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		analyzer   Analyzer
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing resume",
			body:       `{"jobDescription":"Python"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "blank resume",
			body:       `{"resumeText":"   ","jobDescription":"Python"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "malformed json",
			body:       `{"resumeText":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidRequest,
		},
		{
			name:       "role too long",
			body:       `{"resumeText":"a","jobDescription":"b","role":"` + strings.Repeat("x", 101) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "timeout",
			analyzer:   stubAnalyzer{err: errors.NewTimeoutError(errors.ErrCodeAnalysisTimeout, "Analysis timed out", context.DeadlineExceeded)},
			body:       `{"resumeText":"a","jobDescription":"b"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   errors.ErrCodeAnalysisTimeout,
		},
		{
			name:       "internal",
			analyzer:   stubAnalyzer{err: errors.NewInternalError(errors.ErrCodeAnalysisCanceled, "Analysis canceled", context.Canceled)},
			body:       `{"resumeText":"a","jobDescription":"b"}`,
			wantStatus: http.StatusInternalServerError,
			wantCode:   errors.ErrCodeAnalysisCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, ServerConfig{}, Dependencies{Analyzer: tt.analyzer})
			rec := postJSON(h, "/analyze", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestAnalyzeTimeoutIsRetryable(t *testing.T) {
	analyzer := stubAnalyzer{err: errors.NewTimeoutError(errors.ErrCodeAnalysisTimeout, "Analysis timed out", context.DeadlineExceeded)}
	h := newTestServer(t, ServerConfig{}, Dependencies{Analyzer: analyzer})

	rec := postJSON(h, "/analyze", `{"resumeText":"a","jobDescription":"b"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestContentTypeRequired(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, Dependencies{})

	req := httptest.NewRequest(http.MethodPost, "/skills", strings.NewReader(`{"text":"python"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidRequest, decodeError(t, rec).Code)
}

func TestRequestSizeLimit(t *testing.T) {
	h := newTestServer(t, ServerConfig{MaxRequestSize: 16}, Dependencies{})

	rec := postJSON(h, "/skills", `{"text":"`+strings.Repeat("python ", 10)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "too large")
}

func TestSkillsEndpoint(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, Dependencies{})

	rec := postJSON(h, "/skills", `{"text":"Shipped features in python3 and js."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out types.SkillsOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"JavaScript", "Python"}, out.Skills)
	assert.Equal(t, 2, out.Count)

	rec = postJSON(h, "/skills", `{"text":"Trabajo en equipo y liderazgo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Skills)
	assert.Contains(t, rec.Body.String(), `"skills":[]`)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, ServerConfig{}, Dependencies{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key-123"}}, Dependencies{})
	body := `{"text":"python"}`

	tests := []struct {
		name       string
		headers    []string
		wantStatus int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", []string{"X-API-Key", "nope"}, http.StatusUnauthorized},
		{"header key", []string{"X-API-Key", "secret-key-123"}, http.StatusOK},
		{"bearer token", []string{"Authorization", "Bearer secret-key-123"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(h, "/skills", body, tt.headers...)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// health stays public
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	h := newTestServer(t, ServerConfig{RateLimit: rl}, Dependencies{})

	first := postJSON(h, "/skills", `{"text":"python"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := postJSON(h, "/skills", `{"text":"python"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, errors.ErrCodeRateLimited, decodeError(t, second).Code)

	other := postJSON(h, "/skills", `{"text":"python"}`, "X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHealthEndpoint(t *testing.T) {
	lexicons := lexicon.NewStore(lexicon.Default())

	t.Run("healthy", func(t *testing.T) {
		models := stubModels{infos: []*ai.ModelInfo{{Name: "hash-256", Capability: "Embedding", Available: true}}}
		h := newTestServer(t, ServerConfig{Version: "1.0.0"}, Dependencies{Models: models, Lexicons: lexicons})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "1.0.0", body["version"])
		assert.Contains(t, body, "lexicon")
		assert.Contains(t, body, "models")
	})

	t.Run("degraded", func(t *testing.T) {
		models := stubModels{infos: []*ai.ModelInfo{{Name: "text-embedding-004", Available: false, Error: "quota"}}}
		h := newTestServer(t, ServerConfig{}, Dependencies{Models: models})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"degraded"`)
	})
}

func TestStatsEndpoint(t *testing.T) {
	rl := &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5, ByIP: true}
	h := newTestServer(t, ServerConfig{RateLimit: rl, MaxRequestSize: 1024}, Dependencies{Models: stubModels{}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	limiting, ok := body["rate_limiting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 5.0, limiting["burst_capacity"])
	assert.Equal(t, 60.0, limiting["rate_per_minute"])
	assert.Contains(t, body, "circuit_breakers")
}
