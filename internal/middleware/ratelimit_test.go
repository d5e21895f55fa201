package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestDailyQuotaExhausts(t *testing.T) {
	quota := NewDailyQuota(2)

	if !quota.Allow() || !quota.Allow() {
		t.Fatal("first two requests should be allowed")
	}
	if quota.Allow() {
		t.Error("third request should exceed the quota")
	}
	if quota.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", quota.Remaining())
	}
}

func TestRateLimitMiddlewareQuotaExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", RateLimitMiddleware(NewIPRateLimiter(rate.Inf, 1), NewDailyQuota(1)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
}

func TestRateLimitMiddlewarePerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Burst of 1 and no refill within the test window.
	r := gin.New()
	r.POST("/chat", RateLimitMiddleware(NewIPRateLimiter(rate.Every(1e9), 1), NewDailyQuota(100)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("burst-exceeding request status = %d, want 429", w.Code)
	}
}
