package http

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler reports readiness of the database and cache backend. A cache
// failure is reported but does not fail the check, mirroring the fail-open
// behavior of the cache itself.
type HealthHandler struct {
	DBPing    func(ctx context.Context) error
	CachePing func(ctx context.Context) error // nil for backends without connectivity
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	overall := "ok"
	status := http.StatusOK
	db := "ok"
	if err := h.DBPing(ctx); err != nil {
		db = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	cacheStatus := "ok"
	if h.CachePing != nil {
		if err := h.CachePing(ctx); err != nil {
			cacheStatus = "unreachable"
		}
	}

	writeJSON(w, status, map[string]string{
		"status": overall,
		"db":     db,
		"cache":  cacheStatus,
	})
}
