package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookbrowser/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configuredOrigins returns the origin list the api starts with when
// ALLOWED_ORIGINS is set to value (empty means the default).
func configuredOrigins(t *testing.T, value string) []string {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", config.BackendMemory)
	t.Setenv("ALLOWED_ORIGINS", value)
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg.AllowedOrigins
}

func serveCORS(origins []string, method, origin string) (*httptest.ResponseRecorder, bool) {
	reached := false
	h := CORSMiddleware(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/v1/books", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, reached
}

func TestCORSMiddleware_DefaultOrigins(t *testing.T) {
	origins := configuredOrigins(t, "")
	require.ElementsMatch(t, []string{"http://localhost:3000", "http://localhost:5173"}, origins)

	for _, origin := range origins {
		t.Run(origin, func(t *testing.T) {
			w, reached := serveCORS(origins, http.MethodGet, origin)

			assert.True(t, reached)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, "GET, POST, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization, X-Request-Id", w.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, []string{"Origin"}, w.Header().Values("Vary"))
		})
	}
}

func TestCORSMiddleware_ConfiguredOriginsAreTrimmed(t *testing.T) {
	origins := configuredOrigins(t, " https://books.example.org , ,http://localhost:3000")

	w, _ := serveCORS(origins, http.MethodGet, "https://books.example.org")
	assert.Equal(t, "https://books.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = serveCORS(origins, http.MethodGet, "http://localhost:5173")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "default origins are replaced, not merged")
}

func TestCORSMiddleware_Requests(t *testing.T) {
	origins := configuredOrigins(t, "")

	tests := []struct {
		name        string
		method      string
		origin      string
		wantCode    int
		wantReached bool
		wantAllowed bool
	}{
		{"disallowed origin passes through without headers", http.MethodGet, "http://evil.example", http.StatusOK, true, false},
		{"no origin", http.MethodPost, "", http.StatusOK, true, false},
		{"preflight", http.MethodOptions, "http://localhost:5173", http.StatusNoContent, false, true},
		{"preflight from disallowed origin", http.MethodOptions, "http://evil.example", http.StatusNoContent, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, reached := serveCORS(origins, tt.method, tt.origin)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantReached, reached)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
