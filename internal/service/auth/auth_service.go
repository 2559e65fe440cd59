package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"campaign-be/internal/config"
	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUserInfo is the subset of the userinfo payload we consume
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthService owns login, sessions and the user profile
type AuthService struct {
	userRepo    repository.UserRepositoryInterface
	redis       *redis.Client
	logger      *logger.Logger
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	sessionTTL  time.Duration
	stateTTL    time.Duration
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepositoryInterface, redisClient *redis.Client, log *logger.Logger) *AuthService {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	return &AuthService{
		userRepo:    userRepo,
		redis:       redisClient,
		logger:      log.Named("auth"),
		oauthConfig: oauthConfig,
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sessionTTL:  cfg.SessionTTL,
		stateTTL:    cfg.OAuthStateTTL,
	}
}

// BeginGoogleLogin mints a single-use CSRF state token and returns the
// Google consent URL carrying it.
func (s *AuthService) BeginGoogleLogin(ctx context.Context) (string, error) {
	if s.oauthConfig.ClientID == "" || s.oauthConfig.ClientSecret == "" {
		return "", apperrors.NewConfigurationError("Google OAuth is not configured")
	}

	state := uuid.New().String()
	stateKey := s.redis.KeyBuilder.KeyOAuthState(state)

	if err := s.redis.Set(ctx, stateKey, "1", s.stateTTL); err != nil {
		s.logger.Error("Failed to store OAuth state", zap.Error(err))
		return "", apperrors.NewInternalError("failed to start login", err)
	}

	url := s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)

	s.logger.Debug("Issued OAuth state", zap.String("state", state))
	return url, nil
}

// CompleteGoogleLogin consumes the callback. The state token is deleted
// the moment it is read, so a replayed callback fails even if it races
// the first one.
func (s *AuthService) CompleteGoogleLogin(ctx context.Context, state, code string) (*domain.AuthResponse, error) {
	if state == "" || code == "" {
		return nil, apperrors.NewValidationError("state and code are required", nil)
	}

	stateKey := s.redis.KeyBuilder.KeyOAuthState(state)
	if _, err := s.redis.GetDel(ctx, stateKey); err != nil {
		if err == redis.Nil {
			s.logger.Warn("OAuth callback with unknown or reused state", zap.String("state", state))
			return nil, apperrors.NewAuthenticationError("invalid or expired state token")
		}
		return nil, apperrors.NewInternalError("failed to verify state", err)
	}

	// Bound the upstream calls independently of the request context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed", zap.Error(err))
		return nil, apperrors.NewExternalError("failed to exchange authorization code", err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, apperrors.NewExternalError("Google returned no email address", nil)
	}

	user, err := s.upsertGoogleUser(ctx, info)
	if err != nil {
		return nil, err
	}

	if err := s.issueSession(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Google login completed",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return &domain.AuthResponse{
		User:    user,
		Token:   *user.SessionToken,
		Message: "login successful",
	}, nil
}

// Register creates an email/password account and logs it in
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required", nil)
	}
	if len(req.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check existing account", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	sessionToken := uuid.New().String()
	expiresAt := now.Add(s.sessionTTL)
	hashStr := string(hash)

	user := &domain.User{
		ID:             uuid.New().String(),
		Email:          email,
		Name:           name,
		AuthProvider:   domain.ProviderEmail,
		PasswordHash:   &hashStr,
		SessionToken:   &sessionToken,
		TokenExpiresAt: &expiresAt,
		LastLoginAt:    &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the GetByEmail check and
		// lose the race at the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("an account with this email already exists")
		}
		return nil, apperrors.NewInternalError("failed to create account", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("email", email))

	return &domain.AuthResponse{
		User:    user,
		Token:   sessionToken,
		Message: "registration successful",
	}, nil
}

// Login checks credentials and rotates the session token. The same
// opaque error covers an unknown email, a wrong password and a
// Google-only account, so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to look up account", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperrors.NewAuthenticationError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewAuthenticationError("invalid email or password")
	}

	if err := s.issueSession(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return &domain.AuthResponse{
		User:    user,
		Token:   *user.SessionToken,
		Message: "login successful",
	}, nil
}

// ResolveToken maps a bearer token to its user. Expired tokens are
// cleared from the store on first sight rather than by a sweeper.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.NewAuthenticationError("missing session token")
	}

	user, err := s.userRepo.GetBySessionToken(ctx, token)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve session", err)
	}
	if user == nil {
		return nil, apperrors.NewAuthenticationError("invalid session token")
	}

	if user.TokenExpiresAt == nil || time.Now().UTC().After(*user.TokenExpiresAt) {
		if err := s.userRepo.ClearSession(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to clear expired session", zap.String("user_id", user.ID), zap.Error(err))
		}
		return nil, apperrors.NewAuthenticationError("session expired")
	}

	return user, nil
}

// Logout invalidates the user's current session token
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearSession(ctx, userID); err != nil {
		return apperrors.NewInternalError("failed to log out", err)
	}

	s.logger.Info("User logged out", zap.String("user_id", userID))
	return nil
}

// UpdateProfile stores the provided business profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, apperrors.NewInternalError("failed to update profile", err)
	}

	return s.getUser(ctx, userID)
}

// CompleteOnboarding stores the profile and marks onboarding done
func (s *AuthService) CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error) {
	if err := s.userRepo.CompleteOnboarding(ctx, userID, profile); err != nil {
		return nil, apperrors.NewInternalError("failed to complete onboarding", err)
	}

	s.logger.Info("Onboarding completed", zap.String("user_id", userID))
	return s.getUser(ctx, userID)
}

// issueSession rotates the user's session token and mutates the user in place
func (s *AuthService) issueSession(ctx context.Context, user *domain.User) error {
	token := uuid.New().String()
	expiresAt := time.Now().UTC().Add(s.sessionTTL)

	if err := s.userRepo.UpdateSession(ctx, user.ID, token, expiresAt); err != nil {
		return apperrors.NewInternalError("failed to create session", err)
	}

	now := time.Now().UTC()
	user.SessionToken = &token
	user.TokenExpiresAt = &expiresAt
	user.LastLoginAt = &now

	return nil
}

func (s *AuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)

	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch Google user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("Google user info returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperrors.NewExternalError("failed to decode Google user info", err)
	}

	return &info, nil
}

// upsertGoogleUser finds the account by email or creates one. An
// existing email/password account becomes linkable through Google, so
// a picture from Google never clobbers a local password hash.
func (s *AuthService) upsertGoogleUser(ctx context.Context, info *googleUserInfo) (*domain.User, error) {
	email := strings.ToLower(info.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to look up account", err)
	}
	if user != nil {
		return user, nil
	}

	name := info.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user = &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		AuthProvider: domain.ProviderGoogle,
	}
	if info.Picture != "" {
		user.Picture = &info.Picture
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a signup race: the account exists now, so use it.
		if errors.Is(err, repository.ErrDuplicate) {
			if existing, lookupErr := s.userRepo.GetByEmail(ctx, email); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, apperrors.NewInternalError("failed to create account", err)
	}

	s.logger.Info("New Google account created", zap.String("user_id", user.ID), zap.String("email", email))
	return user, nil
}

func (s *AuthService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	return user, nil
}
