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

// SEOHandler exposes page analysis and domain tracking endpoints
type SEOHandler struct {
	seoService service.SEOServiceInterface
	logger     *logger.Logger
}

func NewSEOHandler(seoService service.SEOServiceInterface, log *logger.Logger) *SEOHandler {
	return &SEOHandler{
		seoService: seoService,
		logger:     log.Named("seo-handler"),
	}
}

// Analyze scrapes and scores a single page on demand
func (h *SEOHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.SEORequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	analysis, err := h.seoService.Analyze(r.Context(), req.URL)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// TrackDomain registers a URL for periodic re-analysis
func (h *SEOHandler) TrackDomain(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var req domain.TrackDomainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	tracked, err := h.seoService.TrackDomain(r.Context(), user.ID, req.URL)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, tracked)
}

// ListDomains returns the caller's tracked domains
func (h *SEOHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	domains, err := h.seoService.ListDomains(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, domains)
}

// UntrackDomain stops watching a domain
func (h *SEOHandler) UntrackDomain(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	if err := h.seoService.UntrackDomain(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "domain untracked"})
}
