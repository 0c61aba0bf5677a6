package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naya-01/PAE/internal/auth"
	"github.com/Naya-01/PAE/internal/config"
	"github.com/Naya-01/PAE/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *auth.Manager) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.GinMode = "test"
	cfg.CORS.AllowOrigins = "http://localhost:3000"
	cfg.CORS.AllowMethods = "GET,POST"
	cfg.CORS.AllowHeaders = "Authorization,Content-Type"

	tokens, err := auth.NewManager("test-secret", "auth0")
	require.NoError(t, err)
	return New(cfg, memory.NewStore(), tokens, nil), tokens
}

func TestPing(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPIRequiresToken(t *testing.T) {
	s, tokens := newTestServer(t)
	router := s.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/offers/last", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.Issue(13, false)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/offers/last", nil)
	req.Header.Set("Authorization", token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "donnamis_http_request_duration_seconds"))
}
