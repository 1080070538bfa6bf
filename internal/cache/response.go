package cache

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/contactd/contactd/internal/port/cache"
)

// setTimeout bounds the detached cache write after a load completes.
const setTimeout = 2 * time.Second

// Invalidator purges an owner's cached responses. Services depend on this
// interface so tests can record invalidations without a backend.
type Invalidator interface {
	InvalidateOwner(ctx context.Context, owner string)
}

// ResponseCache is a read-through cache over a Cache backend. It is
// constructed once at startup and injected wherever reads are wrapped or
// writes need to invalidate; there is no package-level instance.
//
// All backend failures are fail-open: a broken or unreachable backend
// degrades every operation to the live path and never fails a request.
type ResponseCache struct {
	backend    cache.Cache
	defaultTTL time.Duration
	group      singleflight.Group
}

// NewResponseCache creates a ResponseCache with the given backend and
// default TTL, applied whenever a caller passes ttl <= 0.
func NewResponseCache(backend cache.Cache, defaultTTL time.Duration) *ResponseCache {
	return &ResponseCache{backend: backend, defaultTTL: defaultTTL}
}

// GetOrLoad serves key from the cache, or runs load exactly once, stores a
// successful result, and returns it. The boolean reports a cache hit.
//
// Concurrent callers of the same key share one load. Only status-200
// payloads are stored: absence and errors are never cached negatively. When
// the backend Get fails, the load result is returned live and the Set is
// skipped. A load error is returned as-is with nothing stored.
//
// A load that is in flight when InvalidateOwner runs still stores its
// result afterwards, so subsequent reads may serve data from before the
// invalidating write until the entry's TTL expires. This window is
// accepted: closing it would require locking invalidation against every
// in-flight load.
func (c *ResponseCache) GetOrLoad(ctx context.Context, key Key, ttl time.Duration, load func(ctx context.Context) (*Payload, error)) (*Payload, bool, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	keyStr := key.String()

	data, found, err := c.backend.Get(ctx, keyStr)
	if err != nil {
		Errors.WithLabelValues("get").Inc()
		slog.Warn("cache get failed, serving live", "key", keyStr, "error", err)
		p, loadErr := load(ctx)
		return p, false, loadErr
	}
	if found {
		p, decErr := decodePayload(data)
		if decErr == nil {
			Hits.Inc()
			return p, true, nil
		}
		// Undecodable entry: drop it and fall through to a live read.
		slog.Warn("cache entry corrupt, treating as miss", "key", keyStr, "error", decErr)
		_ = c.backend.Delete(ctx, keyStr)
	}
	Misses.Inc()

	v, err, _ := c.group.Do(keyStr, func() (any, error) {
		p, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if p != nil && p.Status == http.StatusOK {
			c.store(ctx, keyStr, p, ttl)
		}
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Payload), false, nil
}

// store writes a loaded payload under a detached context, so a caller that
// cancelled mid-flight does not abort an idempotent, TTL-bounded write.
func (c *ResponseCache) store(ctx context.Context, key string, p *Payload, ttl time.Duration) {
	data, err := encodePayload(p)
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		slog.Warn("cache encode failed, skipping store", "key", key, "error", err)
		return
	}

	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), setTimeout)
	defer cancel()

	if err := c.backend.Set(setCtx, key, data, ttl); err != nil {
		Errors.WithLabelValues("set").Inc()
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// InvalidateOwner removes every cached response belonging to owner. Best
// effort: a backend failure leaves entries to expire by TTL and is never
// surfaced, so the write that triggered the invalidation always succeeds.
func (c *ResponseCache) InvalidateOwner(ctx context.Context, owner string) {
	Invalidations.Inc()
	n, err := c.backend.DeleteByPrefix(ctx, OwnerPrefix(owner))
	if err != nil {
		Errors.WithLabelValues("invalidate").Inc()
		slog.Warn("cache invalidation failed, entries expire by TTL", "owner", owner, "error", err)
		return
	}
	InvalidatedKeys.Add(float64(n))
	slog.Debug("cache invalidated", "owner", owner, "keys", n)
}

var _ Invalidator = (*ResponseCache)(nil)
