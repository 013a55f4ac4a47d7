package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasklist/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupRateLimitedRouter(requestsPerMinute, burst int) (*gin.Engine, *middleware.RateLimiter) {
	gin.SetMode(gin.TestMode)
	limiter := middleware.NewRateLimiter(requestsPerMinute, burst, time.Minute)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, limiter
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	router, limiter := setupRateLimitedRouter(60, 5)
	defer limiter.Close()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	router, limiter := setupRateLimitedRouter(1, 2)
	defer limiter.Close()

	var lastCode int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after the burst, got %d", lastCode)
	}
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	router, limiter := setupRateLimitedRouter(1, 1)
	defer limiter.Close()

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for first client, got %d", w.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/ping", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("Expected a fresh bucket for the second client, got %d", w.Code)
	}
}
