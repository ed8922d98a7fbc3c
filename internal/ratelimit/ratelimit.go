// Package ratelimit provides windowed request rate limiting backed by
// the cache counter store. The server applies it to the login endpoint
// to slow down credential guessing.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/api"
	"github.com/MoizAnsari7/itest-backend/internal/cache"
)

// Config defines rate limiting parameters.
type Config struct {
	// RequestsPerWindow is the maximum requests allowed per window.
	RequestsPerWindow int64

	// Window is the time window.
	Window time.Duration

	// KeyPrefix is prepended to all counter keys.
	KeyPrefix string
}

// DefaultConfig returns the default limits for the login endpoint.
func DefaultConfig() *Config {
	return &Config{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:",
	}
}

// Limiter enforces a fixed-window rate limit per client key.
type Limiter struct {
	counter cache.Counter
	config  *Config
}

// New creates a rate limiter on the given counter store.
func New(c cache.Counter, cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Limiter{counter: c, config: cfg}
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Allow counts a request against the key and reports whether it is
// within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	count, resetAt, err := l.counter.Increment(ctx, l.config.KeyPrefix+key, 1, l.config.Window)
	if err != nil {
		return nil, err
	}

	remaining := l.config.RequestsPerWindow - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= l.config.RequestsPerWindow,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.counter.Reset(ctx, l.config.KeyPrefix+key)
}

// KeyFromRequest extracts the client key from a request. Uses the
// first X-Forwarded-For entry when present, otherwise RemoteAddr with
// the port stripped.
func KeyFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}

// Middleware applies the rate limit to every request passing through.
// Counter errors fail open.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := l.Allow(r.Context(), KeyFromRequest(r))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.config.RequestsPerWindow, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(result.ResetAt).Seconds())))
			api.WriteError(w, http.StatusTooManyRequests, api.ReasonRateLimited, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}
