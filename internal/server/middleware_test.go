package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/review-relay/internal/logger"
)

func newTestRouter(routes func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware(logger.NewNop()))
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	if routes != nil {
		routes(r)
	}
	return r
}

func TestCORSMiddleware_HeadersOnEveryResponse(t *testing.T) {
	r := newTestRouter(func(r *gin.Engine) {
		r.GET("/entries", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/entries", nil))

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSMiddleware_PreflightEmptyBody(t *testing.T) {
	handlerCalled := false
	r := newTestRouter(func(r *gin.Engine) {
		r.POST("/entries", func(c *gin.Context) {
			handlerCalled = true
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/entries", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, handlerCalled)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := newTestRouter(func(r *gin.Engine) {
		r.GET("/boom", func(*gin.Context) {
			panic("kaboom")
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success": false, "error": "Internal server error"}`, w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newTestRouter(func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A caller-provided ID is propagated, not replaced.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get("X-Request-ID"))
}

func TestFormatMaxAge(t *testing.T) {
	assert.Equal(t, "43200", formatMaxAge(DefaultCORSMaxAge))
	assert.Equal(t, "0", formatMaxAge(0))
}
