package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything whose reachability can be checked: the database and
// the media provider both qualify.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and connectivity checks.
type HealthHandler struct {
	db       Pinger
	provider Pinger
	logger   *slog.Logger
}

func NewHealthHandler(db, provider Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, provider: provider, logger: logger}
}

// HandleHealth serves GET /healthz. It reports the database only; an
// upstream outage should not take the server out of a load balancer.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}

// HandleProviderTest serves GET /api/Trending/test: one call to TMDB with
// the configured key.
func (h *HealthHandler) HandleProviderTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.provider.Ping(ctx); err != nil {
		h.logger.Warn("provider test failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "TMDB API test failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "TMDB API connection successful"})
}
