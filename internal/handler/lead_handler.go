package handler

import (
	"net/http"

	"campaign-be/internal/domain"
	"campaign-be/internal/middleware"
	"campaign-be/internal/service"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// LeadHandler exposes lead tracking endpoints
type LeadHandler struct {
	leadService service.LeadServiceInterface
	logger      *logger.Logger
}

func NewLeadHandler(leadService service.LeadServiceInterface, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      log.Named("lead-handler"),
	}
}

// List returns the caller's leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	leads, err := h.leadService.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, leads)
}

// UpdateStatus moves a lead through the funnel
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.LeadStatusUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	lead, err := h.leadService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), user.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, lead)
}
