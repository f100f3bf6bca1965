package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func init() {
	gin.SetMode(gin.TestMode)
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(token string) bool { return r[token] }

func newAuthRouter(opts ...middleware.AuthOption) *gin.Engine {
	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(testSecret, opts...), func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		token, _ := middleware.GetTokenFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID, "hasToken": token != ""})
	})
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	valid, _, err := utils.GenerateJWT("user-1", testSecret, time.Hour, "test")
	require.NoError(t, err)
	expired, _, err := utils.GenerateJWT("user-1", testSecret, -time.Minute, "test")
	require.NoError(t, err)
	revoked, _, err := utils.GenerateJWT("user-1", testSecret, time.Hour, "test")
	require.NoError(t, err)

	router := newAuthRouter(middleware.WithRevocationCheck(revokedSet{revoked: true}), middleware.WithCookie("token"))

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized, "Bearer {token}"},
		{"garbage token", "Bearer abc", "", http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized, "Token has expired"},
		{"revoked", "Bearer " + revoked, "", http.StatusUnauthorized, "Token has been revoked"},
		{"valid header", "Bearer " + valid, "", http.StatusOK, `"userID":"user-1"`},
		{"valid cookie", "", valid, http.StatusOK, `"hasToken":true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			w := serve(router, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_CookieIgnoredWithoutOption(t *testing.T) {
	valid, _, err := utils.GenerateJWT("user-1", testSecret, time.Hour, "test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: valid})
	w := serve(newAuthRouter(), req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStructuredLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(middleware.StructuredLoggingMiddleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		middleware.GetLoggerFromContext(c).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := serve(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"msg":"inside handler"`)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"status":204`)
}

func TestGetLoggerFromCtx_DefaultsWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, slog.Default(), middleware.GetLoggerFromCtx(req.Context()))
}

func TestRateLimit(t *testing.T) {
	lim, err := middleware.NewRateLimiter("2-M")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/login", middleware.RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(router, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(router, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	_, err = middleware.NewRateLimiter("lots")
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)

	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/api/people/all", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", middleware.MetricsHandler(reg))

	serve(router, httptest.NewRequest(http.MethodGet, "/api/people/all", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `money_tracker_http_requests_total{method="GET",route="/api/people/all",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `route="unmatched",status="404"`)
	// the scrape itself is counted once it completes
	count, err := testutil.GatherAndCount(reg, "money_tracker_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPosthogMiddleware_DisabledClientPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(middleware.PosthogMiddleware(&utils.PosthogClientWrapper{}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(middleware.CORS([]string{"http://localhost:3000"}))
	router.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(router, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
