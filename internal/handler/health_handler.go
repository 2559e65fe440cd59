package handler

import (
	"net/http"
	"time"

	"campaign-be/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "campaign-be",
	})
}

// Ready handles GET /health/ready and pings the backing stores
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.container.Health(r.Context()); err != nil {
		h.container.GetLogger().WithError(err).Warn("Readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UTC(),
			Service:   "campaign-be",
		})
		return
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Service:   "campaign-be",
	})
}
