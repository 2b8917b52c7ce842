// Package cache defines the byte cache used by cachedstore to keep documents read by
// identifier. Implementations live in memcache (in-process) and rediscache (shared).
package cache

import "context"

// Cache stores encoded documents by key.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the cache's default expiration.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
