// Package cache provides the TTL-bounded cache service used by the
// product-detail store. Implementations are constructed and injected
// explicitly so no state is shared process-wide.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry time-to-live.
type Cache interface {
	// Get returns the cached value for key, or (nil, nil) on a miss.
	// Expired entries count as misses.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for the given TTL. A zero TTL uses the
	// implementation's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the entry for key without fetching.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
