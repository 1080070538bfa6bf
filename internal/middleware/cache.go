package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/contactd/contactd/internal/cache"
	"github.com/contactd/contactd/internal/config"
)

const (
	headerCache = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

// ResponseCache returns middleware that serves GET responses from the cache
// and records misses. The cache key is scoped to the authenticated user (or
// the anonymous scope), so entries never leak across owners. Only 200
// responses are stored; everything else is passed through uncached.
//
// The wrapped handler runs against a capture-only recorder rather than the
// real ResponseWriter: with concurrent identical requests collapsed into one
// load, every caller writes the returned payload itself.
func ResponseCache(rc *cache.ResponseCache, cfg config.Cache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			owner := cache.AnonymousOwner
			if u, ok := UserFromContext(r.Context()); ok {
				owner = u.ID
			}

			key := cache.Key{Owner: owner, Path: r.URL.Path, Query: r.URL.Query()}

			payload, hit, err := rc.GetOrLoad(r.Context(), key, cfg.TTLFor(r.URL.Path), func(ctx context.Context) (*cache.Payload, error) {
				rec := &captureRecorder{header: make(http.Header), status: http.StatusOK}
				next.ServeHTTP(rec, r.WithContext(ctx))
				return &cache.Payload{
					Status:      rec.status,
					ContentType: rec.header.Get("Content-Type"),
					Body:        rec.body.Bytes(),
				}, nil
			})
			if err != nil {
				// The capture load cannot fail; pass through untouched.
				next.ServeHTTP(w, r)
				return
			}

			if payload.ContentType != "" {
				w.Header().Set("Content-Type", payload.ContentType)
			}
			w.Header().Set("Content-Length", strconv.Itoa(len(payload.Body)))
			if hit {
				w.Header().Set(headerCache, cacheHit)
			} else {
				w.Header().Set(headerCache, cacheMiss)
			}
			w.WriteHeader(payload.Status)
			_, _ = w.Write(payload.Body)
		})
	}
}

// captureRecorder is a ResponseWriter that only records; nothing reaches the
// client until the middleware writes the payload.
type captureRecorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *captureRecorder) Header() http.Header { return r.header }

func (r *captureRecorder) WriteHeader(code int) { r.status = code }

func (r *captureRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}
