package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/cache"
	"github.com/MoizAnsari7/itest-backend/internal/ratelimit"
)

func newLimiter(limit int64) *ratelimit.Limiter {
	return ratelimit.New(cache.NewMemory(0), &ratelimit.Config{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "test:",
	})
}

func TestAllow_WithinLimit(t *testing.T) {
	l := newLimiter(3)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(context.Background(), "client")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !res.Allowed {
			t.Errorf("request %d denied within limit", i+1)
		}
	}

	res, err := l.Allow(context.Background(), "client")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if res.Allowed {
		t.Error("request over the limit was allowed")
	}
	if res.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", res.Remaining)
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := newLimiter(1)

	if res, _ := l.Allow(context.Background(), "a"); !res.Allowed {
		t.Error("first request for key a denied")
	}
	if res, _ := l.Allow(context.Background(), "b"); !res.Allowed {
		t.Error("first request for key b denied")
	}
	if res, _ := l.Allow(context.Background(), "a"); res.Allowed {
		t.Error("second request for key a allowed over limit")
	}
}

func TestReset(t *testing.T) {
	l := newLimiter(1)

	if _, err := l.Allow(context.Background(), "client"); err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if err := l.Reset(context.Background(), "client"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if res, _ := l.Allow(context.Background(), "client"); !res.Allowed {
		t.Error("request denied after reset")
	}
}

func TestKeyFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:51234"
	if key := ratelimit.KeyFromRequest(r); key != "10.0.0.1" {
		t.Errorf("key = %q, want 10.0.0.1", key)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if key := ratelimit.KeyFromRequest(r); key != "203.0.113.9" {
		t.Errorf("key = %q, want 203.0.113.9", key)
	}
}

func TestMiddleware(t *testing.T) {
	l := newLimiter(2)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set")
	}
	if last.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", last.Header().Get("X-RateLimit-Remaining"))
	}
}
