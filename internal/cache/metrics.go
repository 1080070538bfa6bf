package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits counts reads served from the cache without touching persistence.
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactd_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	// Misses counts reads that fell through to the underlying store.
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactd_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// Errors counts backend failures by operation. The wrapper fails open,
	// so these never surface to callers.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactd_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"operation"}, // "get", "set", "invalidate"
	)

	// Invalidations counts owner-scope purges triggered by writes.
	Invalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactd_cache_invalidations_total",
			Help: "Total number of owner cache invalidations",
		},
	)

	// InvalidatedKeys counts individual keys removed by invalidations.
	InvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contactd_cache_invalidated_keys_total",
			Help: "Total number of keys removed by owner invalidations",
		},
	)
)
