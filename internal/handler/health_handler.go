package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HealthHandler reports store reachability.
type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ping func(ctx context.Context) error, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		ping:   ping,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
