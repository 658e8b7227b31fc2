package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports service liveness and the active storage backend
type HealthHandler struct {
	db      HealthChecker
	storage string
	logger  *zap.Logger
}

// NewHealthHandler creates a health handler. A nil db means the in-memory store is in use.
func NewHealthHandler(db HealthChecker, logger *zap.Logger) *HealthHandler {
	storage := "postgres"
	if db == nil {
		storage = "memory"
	}
	return &HealthHandler{db: db, storage: storage, logger: handlerLogger(logger, "health")}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			h.logger.Warn("database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"storage": h.storage,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.storage,
	})
}
