package http

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck reports an error when a dependency is unavailable.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports the state of every named dependency.
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

// Check runs all checks and returns per-dependency state plus overall health.
func (h *HealthHandler) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	states := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			states[name] = "down"
			healthy = false
			continue
		}
		states[name] = "up"
	}
	return states, healthy
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	states, healthy := h.Check(r.Context())
	if !healthy {
		respondWithJSON(w, http.StatusServiceUnavailable, envelope{Status: statusError, Data: states})
		return
	}
	respondSuccess(w, http.StatusOK, states)
}
