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

// CampaignHandler exposes campaign lifecycle endpoints
type CampaignHandler struct {
	campaignService service.CampaignServiceInterface
	logger          *logger.Logger
}

func NewCampaignHandler(campaignService service.CampaignServiceInterface, log *logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		logger:          log.Named("campaign-handler"),
	}
}

// Generate creates a new AI-generated draft
func (h *CampaignHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.CampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	campaign, err := h.campaignService.Generate(r.Context(), user, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, campaign)
}

// List returns the caller's campaigns
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	campaigns, err := h.campaignService.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, campaigns)
}

// Get returns a single campaign
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	campaign, err := h.campaignService.Get(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// Update edits a draft's title or content
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.CampaignUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	campaign, err := h.campaignService.Update(r.Context(), chi.URLParam(r, "id"), user.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// Delete removes a campaign
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	if err := h.campaignService.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

// Schedule marks a draft for later dispatch
func (h *CampaignHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	campaign, err := h.campaignService.Schedule(r.Context(), chi.URLParam(r, "id"), user.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, campaign)
}

// Send dispatches an email campaign to its recipients
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.EmailSendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.campaignService.SendEmails(r.Context(), chi.URLParam(r, "id"), user.ID, &req)
	if err != nil {
		// Partial results still matter when every delivery failed
		if result != nil {
			respondJSON(w, http.StatusBadGateway, result)
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
