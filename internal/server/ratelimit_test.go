package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"resumatch/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestLimiterManager(t *testing.T) {
	m := NewLimiterManager(60, 2, time.Minute, errors.NewNopLogger())
	defer m.Close()

	assert.True(t, m.Allow("ip:1"))
	assert.True(t, m.Allow("ip:1"))
	assert.False(t, m.Allow("ip:1"), "burst exhausted")
	assert.True(t, m.Allow("ip:2"), "keys are independent")

	stats := m.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, uint64(1), stats["rejected_total"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 1e-9)

	m.Close()
	assert.NotPanics(t, m.Close)
}

func TestLimiterCleanup(t *testing.T) {
	m := NewLimiterManager(60, 1, time.Hour, errors.NewNopLogger())
	defer m.Close()

	m.Allow("ip:old")
	m.mu.Lock()
	m.lastSeen["ip:old"] = time.Now().Add(-2 * time.Hour)
	m.mu.Unlock()
	m.Allow("ip:new")

	m.cleanup(time.Hour)
	assert.Equal(t, 1, m.GetStats()["active_limiters"])
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{"api key preferred", map[string]string{"X-API-Key": "k1"}, true, true, "api_key:k1"},
		{"bearer", map[string]string{"Authorization": "Bearer k2"}, true, false, "api_key:k2"},
		{"ip fallback", nil, true, true, "ip:192.0.2.1"},
		{"forwarded", map[string]string{"X-Forwarded-For": "bogus, 198.51.100.7"}, false, true, "ip:198.51.100.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.8"}, false, true, "ip:198.51.100.8"},
		{"disabled", nil, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/analyze", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getRateLimitKey(r, tt.byAPIKey, tt.byIP))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}
