// Package cache stores solve traces and rendered artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so that the layout of the key space lives in one place.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Default time-to-live values. Solve traces depend only on the problem and
// solver options, so they live longer than rendered artifacts.
const (
	TTLTrace    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

type ttlCache struct {
	Cache
	ttl time.Duration
}

// WithTTL returns c with every Set using ttl instead of the caller's value.
// A ttl <= 0 returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return ttlCache{Cache: c, ttl: ttl}
}

func (c ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}
