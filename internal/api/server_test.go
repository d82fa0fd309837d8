package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votecnp/election-api/internal/cache"
	"github.com/votecnp/election-api/internal/config"
	"github.com/votecnp/election-api/internal/event"
	"github.com/votecnp/election-api/internal/pkg/jwthelper"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			Port:          "0",
			BaseURL:       "localhost",
			JWTSigningKey: "server-test-key",
			JWTExpiration: time.Hour,
		},
		Gin:        &config.GinConfig{Mode: gin.TestMode},
		Statistics: &config.StatisticsConfig{CacheTTL: time.Second},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Only routes that never reach the database are exercised here.
	return NewServer(ctx, conf, nil, cache.Nop{}, event.NopPublisher{})
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/swagger/index.html", http.StatusOK},
		{http.MethodGet, "/api/v1/does-not-exist", http.StatusNotFound},
		{http.MethodPost, "/api/v1/votes", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/votes/mine", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/votes/statistics", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/votes/live", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/candidates", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/statistics", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/auth/login", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/auth/register", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			s.Router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestServer_QueryTokenOnlyOnLiveRoute(t *testing.T) {
	s := newTestServer(t)
	tok, err := jwthelper.GenerateToken([]byte(s.Config.API.JWTSigningKey), 1, "election-client/1.0", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/votes/mine?token="+tok, nil)
	req.Header.Set("User-Agent", "election-client/1.0")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")
}

func TestServer_HealthBody(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	assert.Contains(t, w.Body.String(), `"environment":"test"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
