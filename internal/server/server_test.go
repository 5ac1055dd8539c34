package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nulzo/model-catalog/internal/config"
	"github.com/nulzo/model-catalog/internal/core/services"
	"github.com/nulzo/model-catalog/internal/server/middleware"
	"github.com/nulzo/model-catalog/internal/store/cache/memory"
	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, keys []string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test", APIKeys: keys},
	}
	logger := zap.NewNop()
	svc := services.NewModelService(logger, nil, memory.New(), tokenizer.New(logger), time.Minute)
	return New(cfg, logger, svc).Handler()
}

func TestHealthIsPublic(t *testing.T) {
	h := newTestServer(t, []string{"key"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCatalogRequiresKeyWhenConfigured(t *testing.T) {
	h := newTestServer(t, []string{"key"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/catalog", nil)
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/v1/catalog", nil)
	req.Header.Set("Authorization", "Bearer key")
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogOpenWithoutKeys(t *testing.T) {
	h := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/catalog/whisper-1", nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"whisper-1","family":"whisper","has_limit":false}`, w.Body.String())
}
