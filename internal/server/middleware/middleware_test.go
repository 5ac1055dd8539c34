package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), ErrorHandler(zap.NewNop()))
	engine.Use(mw...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})
	return engine
}

func get(engine *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	engine := newEngine(Auth([]string{"secret-1", "secret-2"}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret-1", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown key", "Bearer nope", http.StatusUnauthorized},
		{"first key", "Bearer secret-1", http.StatusOK},
		{"second key", "Bearer secret-2", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := get(engine, "/ping", headers)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, zap.NewNop())
	engine := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(engine, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, get(engine, "/ping", nil).Code)

	w := get(engine, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too Many Requests")
}

func TestRequestID(t *testing.T) {
	engine := newEngine()

	w := get(engine, "/ping", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = get(engine, "/ping", map[string]string{RequestIDHeader: "caller-id"})
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler_UnknownError(t *testing.T) {
	engine := newEngine()

	w := get(engine, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
