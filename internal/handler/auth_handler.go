package handler

import (
	"net/http"
	"net/url"

	"campaign-be/internal/domain"
	"campaign-be/internal/middleware"
	"campaign-be/internal/service"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"go.uber.org/zap"
)

// AuthHandler exposes login, session and profile endpoints
type AuthHandler struct {
	authService service.AuthServiceInterface
	frontendURL string
	logger      *logger.Logger
}

func NewAuthHandler(authService service.AuthServiceInterface, frontendURL string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
		logger:      log.Named("auth-handler"),
	}
}

// GoogleLogin hands the frontend the Google consent URL
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.authService.BeginGoogleLogin(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"auth_url": authURL})
}

// GoogleCallback completes the OAuth flow. Success and failure both end
// in a redirect back to the frontend, since the browser lands here
// directly from Google.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.redirectWithError(w, r, errParam)
		return
	}

	resp, err := h.authService.CompleteGoogleLogin(r.Context(), state, code)
	if err != nil {
		h.logger.Warn("Google callback failed", zap.Error(err))
		h.redirectWithError(w, r, "authentication_failed")
		return
	}

	redirect := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(resp.Token)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

// Register creates an email/password account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login checks credentials and returns a fresh session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Logout invalidates the caller's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile stores business profile fields
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var profile domain.BusinessProfile
	if err := decodeJSON(r, &profile); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, &profile)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// CompleteOnboarding stores the profile and flips the onboarding flag
func (h *AuthHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, r, apperrors.NewAuthenticationError("authentication required"))
		return
	}

	var profile domain.BusinessProfile
	if err := decodeJSON(r, &profile); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.authService.CompleteOnboarding(r.Context(), user.ID, &profile)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, reason string) {
	redirect := h.frontendURL + "?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}
