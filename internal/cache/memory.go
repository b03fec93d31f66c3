package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a map-backed Store with a background janitor. Entries are
// invalidated by expiry only; there is no eviction on write elsewhere.
type MemoryStore struct {
	mu              sync.RWMutex
	items           map[string]memoryEntry
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
}

// NewMemoryStore creates an in-memory store. A non-positive cleanup
// interval falls back to 5 minutes.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	c := &MemoryStore{
		items:           make(map[string]memoryEntry),
		stopCleanup:     make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}

	go c.cleanupExpired()

	return c
}

func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		if e, exists := c.items[key]; exists && now.After(e.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key. A non-positive ttl removes the entry.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil
	}

	// Copy to decouple from caller's buffer
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	c.items[key] = memoryEntry{
		value:     valueCopy,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()

	return nil
}

// cleanupExpired runs periodically to remove expired entries.
func (c *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, v := range c.items {
				if now.After(v.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine. Call this on shutdown or in tests.
func (c *MemoryStore) Close() error {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// Len returns the number of items currently in the cache.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all items. Useful for tests or manual resets.
func (c *MemoryStore) Clear() {
	c.mu.Lock()
	c.items = make(map[string]memoryEntry)
	c.mu.Unlock()
}
