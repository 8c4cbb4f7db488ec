package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultTTL             = time.Minute
)

// MemoryCache implements Cache using in-process storage.
type MemoryCache struct {
	entries sync.Map // map[string]*memoryEntry
	ttl     time.Duration
	cleanup time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// memoryEntry wraps a cached value with its expiration time
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *memoryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryCacheOption is a functional option for configuring the cache
type MemoryCacheOption func(*MemoryCache)

// WithDefaultTTL sets the TTL used when Set is called with a zero TTL.
func WithDefaultTTL(ttl time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(interval time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.cleanup = interval
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.logger = logger
	}
}

// NewMemoryCache creates a new in-memory TTL cache
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		ttl:     defaultTTL,
		cleanup: defaultCleanupInterval,
		logger:  zap.NewNop(),
		stopCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get returns the cached value for key, or (nil, nil) on a miss
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*memoryEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("cache hit", zap.String("key", key))
			return entry.value, nil
		}
		// Expired, remove from cache
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("cache miss", zap.String("key", key))
	return nil, nil
}

// Set stores value under key for the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	c.entries.Store(key, &memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("cached entry",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes the entry for key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Delete(key)
	c.logger.Debug("deleted cache entry", zap.String("key", key))
	return nil
}

// Close releases any resources held by the cache
func (c *MemoryCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit/miss counters
func (c *MemoryCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries currently held
func (c *MemoryCache) Count() (count int) {
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

// doCleanup removes expired entries
func (c *MemoryCache) doCleanup() {
	var removed int
	c.entries.Range(func(key, value any) bool {
		if value.(*memoryEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("cleaned up expired cache entries", zap.Int("removed", removed))
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
