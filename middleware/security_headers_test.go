package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySecurityHeaders(t *testing.T, config SecurityConfig) http.Header {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersWithConfig(config)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Header()
}

func TestSecurityHeadersWithConfigSetsHardeningHeaders(t *testing.T) {
	h := applySecurityHeaders(t, SecurityConfig{})

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Equal(t, "geolocation=(), microphone=(), camera=()", h.Get("Permissions-Policy"))
	assert.Empty(t, h.Get("Server"))
	assert.Empty(t, h.Get("X-Powered-By"))
}

func TestBuildCSP(t *testing.T) {
	tests := []struct {
		name   string
		config SecurityConfig
		want   string
	}{
		{
			name:   "locked down",
			config: SecurityConfig{},
			want:   "default-src 'self'; frame-ancestors 'none'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self'",
		},
		{
			name:   "inline scripts",
			config: SecurityConfig{AllowInlineJS: true},
			want:   "default-src 'self'; frame-ancestors 'none'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'",
		},
		{
			name:   "eval",
			config: SecurityConfig{AllowEval: true},
			want:   "default-src 'self'; frame-ancestors 'none'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-eval'",
		},
		{
			name:   "websocket connect sources",
			config: SecurityConfig{ConnectSources: []string{"ws:", "wss:"}},
			want:   "default-src 'self'; frame-ancestors 'none'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self'; connect-src 'self' ws: wss:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildCSP(tt.config))
		})
	}
}

func TestSecurityHeadersWithConfigEmitsCSP(t *testing.T) {
	h := applySecurityHeaders(t, SecurityConfig{
		ConnectSources: []string{"wss:"},
		AllowInlineJS:  true,
	})

	csp := h.Get("Content-Security-Policy")
	assert.Contains(t, csp, "img-src 'self' data:")
	assert.Contains(t, csp, "script-src 'self' 'unsafe-inline'")
	assert.Contains(t, csp, "connect-src 'self' wss:")
}
