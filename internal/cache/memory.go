package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-process LRU cache with per-entry expiry.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	hits, misses int64
}

type entry struct {
	data     []byte
	expires  time.Time
	lastUsed time.Time
}

// NewMemoryStore keeps at most maxSize entries, each for ttl unless Set
// says otherwise.
func NewMemoryStore(maxSize int, ttl time.Duration) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryStore) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	now := c.now()
	if ok && now.After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		c.mu.Unlock()
		return false, nil
	}
	e.lastUsed = now
	c.hits++
	data := e.data
	c.mu.Unlock()

	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[key] = &entry{data: data, expires: now.Add(ttl), lastUsed: now}
	return nil
}

func (c *MemoryStore) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *MemoryStore) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	return nil
}

// evictLRU drops the least recently used entry. Callers hold mu.
func (c *MemoryStore) evictLRU() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range c.entries {
		if first || e.lastUsed.Before(oldest) {
			oldestKey, oldest, first = key, e.lastUsed, false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Cleanup removes expired entries.
func (c *MemoryStore) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done. The returned
// channel is closed once the goroutine has exited.
func (c *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Cleanup()
			}
		}
	}()
	return done
}

// Stats reports the entry count and hit/miss counters.
func (c *MemoryStore) Stats() (size int, hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.hits, c.misses
}
