package cache

import (
	"context"
	"sync"
	"time"
)

type counterItem struct {
	value     int64
	expiresAt time.Time
}

// Memory is an in-memory Counter with periodic cleanup of expired
// entries.
type Memory struct {
	mu        sync.Mutex
	counters  map[string]*counterItem
	stopClean chan struct{}
	closeOnce sync.Once

	now func() time.Time
}

// NewMemory creates an in-memory counter store. cleanupInterval
// controls how often expired counters are dropped (0 disables the
// cleanup goroutine).
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		counters:  make(map[string]*counterItem),
		stopClean: make(chan struct{}),
		now:       time.Now,
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

// WithClock replaces the store clock. Test hook.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.deleteExpired()
		case <-m.stopClean:
			return
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, c := range m.counters {
		if now.After(c.expiresAt) {
			delete(m.counters, k)
		}
	}
}

// Increment adds delta to the counter, creating it with the given TTL
// when missing or expired.
func (m *Memory) Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c, ok := m.counters[key]
	if !ok || now.After(c.expiresAt) {
		expiresAt := now.Add(ttl)
		m.counters[key] = &counterItem{value: delta, expiresAt: expiresAt}
		return delta, expiresAt, nil
	}

	c.value += delta
	return c.value, c.expiresAt, nil
}

// GetCount returns the current counter value.
func (m *Memory) GetCount(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[key]
	if !ok || m.now().After(c.expiresAt) {
		return 0, nil
	}
	return c.value, nil
}

// Reset removes the counter.
func (m *Memory) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.counters, key)
	return nil
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.stopClean) })
	return nil
}

var _ Counter = (*Memory)(nil)
