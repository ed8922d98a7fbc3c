package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/MoizAnsari7/itest-backend/internal/cache"
)

var cacheClock = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestMemory_IncrementAndGet(t *testing.T) {
	m := cache.NewMemory(0).WithClock(func() time.Time { return cacheClock })
	defer m.Close()

	ctx := context.Background()
	count, resetAt, err := m.Increment(ctx, "k", 1, time.Minute)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !resetAt.Equal(cacheClock.Add(time.Minute)) {
		t.Errorf("resetAt = %v, want %v", resetAt, cacheClock.Add(time.Minute))
	}

	if count, _, _ = m.Increment(ctx, "k", 2, time.Minute); count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	got, err := m.GetCount(ctx, "k")
	if err != nil {
		t.Fatalf("GetCount failed: %v", err)
	}
	if got != 3 {
		t.Errorf("GetCount = %d, want 3", got)
	}
}

func TestMemory_ExpiryRestartsWindow(t *testing.T) {
	now := cacheClock
	m := cache.NewMemory(0).WithClock(func() time.Time { return now })
	defer m.Close()

	ctx := context.Background()
	if _, _, err := m.Increment(ctx, "k", 5, time.Minute); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	now = cacheClock.Add(2 * time.Minute)
	if got, _ := m.GetCount(ctx, "k"); got != 0 {
		t.Errorf("expired GetCount = %d, want 0", got)
	}

	count, _, err := m.Increment(ctx, "k", 1, time.Minute)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count after expiry = %d, want 1", count)
	}
}

func TestMemory_Reset(t *testing.T) {
	m := cache.NewMemory(0).WithClock(func() time.Time { return cacheClock })
	defer m.Close()

	ctx := context.Background()
	if _, _, err := m.Increment(ctx, "k", 4, time.Minute); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if err := m.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got, _ := m.GetCount(ctx, "k"); got != 0 {
		t.Errorf("GetCount after reset = %d, want 0", got)
	}
}
