// Package ristretto implements the cache port in-process using
// dgraph-io/ristretto. Intended for single-node deployments and tests where
// no Redis is available.
package ristretto

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache wraps a ristretto cache behind the cache port. Ristretto cannot
// enumerate its keys, so the adapter tracks live keys itself to support
// prefix deletion.
type Cache struct {
	c *ristretto.Cache[string, []byte]

	mu   sync.Mutex
	keys map[string]struct{}
}

// New creates a ristretto-backed cache. maxCostBytes is the maximum total
// size of cached values in bytes.
func New(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, keys: make(map[string]struct{})}, nil
}

// Get retrieves a value from the cache.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value with the given TTL. The write is flushed before
// returning so a subsequent Get observes it.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	c.c.Wait()

	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)

	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes every tracked key under prefix. The index may still
// hold keys whose entries already expired or were evicted; those count too,
// since deleting an absent key is a no-op.
func (c *Cache) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	matched := make([]string, 0)
	for key := range c.keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
			delete(c.keys, key)
		}
	}
	c.mu.Unlock()

	for _, key := range matched {
		c.c.Del(key)
	}
	return len(matched), nil
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
