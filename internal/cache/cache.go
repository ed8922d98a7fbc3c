// Package cache provides a TTL counter store used for rate limiting.
package cache

import (
	"context"
	"time"
)

// Counter provides atomic windowed counters.
type Counter interface {
	// Increment adds delta to the counter and returns the new value and
	// the time at which the window resets. A missing or expired counter
	// is created with the given TTL.
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, time.Time, error)

	// GetCount returns the current counter value. Returns 0 if the
	// counter is missing or expired.
	GetCount(ctx context.Context, key string) (int64, error)

	// Reset removes the counter.
	Reset(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
