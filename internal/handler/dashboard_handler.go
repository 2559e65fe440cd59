package handler

import (
	"net/http"

	"campaign-be/internal/middleware"
	"campaign-be/internal/service"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
)

// DashboardHandler serves the aggregate dashboard view
type DashboardHandler struct {
	dashboardService service.DashboardServiceInterface
	logger           *logger.Logger
}

func NewDashboardHandler(dashboardService service.DashboardServiceInterface, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           log.Named("dashboard-handler"),
	}
}

// Stats returns campaign, lead and domain aggregates for the caller
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	stats, err := h.dashboardService.GetStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
