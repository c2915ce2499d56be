package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vinay0726/Eventra/middlewares"
)

// RPS=1, Burst=1, two requests back to back: the second gets 429 and a
// Retry-After header.
func TestRateLimiter_429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS: 1, Burst: 1, IdleTTL: time.Minute,
	})

	s := gin.New()
	s.Use(rl.Middleware(func(c *gin.Context) string { return "k" }))
	s.GET("/x", func(c *gin.Context) { c.String(200, "ok") })

	w1 := httptest.NewRecorder()
	s.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("first request got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", w2.Code)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
}

// Buckets are per key: exhausting one key must not throttle another.
func TestRateLimiter_PerKeyBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS: 1, Burst: 1, IdleTTL: time.Minute,
	})

	s := gin.New()
	s.Use(rl.Middleware(func(c *gin.Context) string { return c.Query("k") }))
	s.GET("/x", func(c *gin.Context) { c.String(200, "ok") })

	do := func(key string) int {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?k="+key, nil))
		return w.Code
	}

	if code := do("a"); code != http.StatusOK {
		t.Fatalf("a#1 got %d", code)
	}
	if code := do("a"); code != http.StatusTooManyRequests {
		t.Fatalf("a#2 got %d, want 429", code)
	}
	if code := do("b"); code != http.StatusOK {
		t.Fatalf("b#1 got %d, want 200", code)
	}
}
