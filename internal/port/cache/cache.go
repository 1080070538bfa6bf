// Package cache defines the port interface for key-value caching with expiry.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for cache storage backends.
//
// Values are opaque bytes: whatever Set stores, Get returns bit-identical
// until the entry expires or is deleted. Set, Delete, and DeleteByPrefix are
// idempotent. Implementations must be safe for concurrent use; no caller
// holds locks across these potentially-blocking calls.
type Cache interface {
	// Get returns the stored value, or found=false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key for the given TTL, replacing any prior value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix and returns the
	// number of keys removed. Best effort: partial failure may leave some
	// entries behind, bounded by their TTL.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}
