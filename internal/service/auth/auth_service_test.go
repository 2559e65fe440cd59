package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"campaign-be/internal/config"
	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// userRepoMock is an in-memory UserRepositoryInterface
type userRepoMock struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[string]*domain.User)}
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	user.CreatedAt = time.Now().UTC()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *userRepoMock) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.SessionToken != nil && *u.SessionToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *userRepoMock) UpdateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	now := time.Now().UTC()
	u.SessionToken = &token
	u.TokenExpiresAt = &expiresAt
	u.LastLoginAt = &now
	return nil
}

func (m *userRepoMock) ClearSession(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.SessionToken = nil
		u.TokenExpiresAt = nil
	}
	return nil
}

func (m *userRepoMock) UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	applyProfile(u, profile)
	return nil
}

func (m *userRepoMock) CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	applyProfile(u, profile)
	now := time.Now().UTC()
	u.OnboardingCompleted = true
	u.OnboardingCompletedAt = &now
	return nil
}

func applyProfile(u *domain.User, p *domain.BusinessProfile) {
	set := func(dst **string, v string) {
		if v != "" {
			s := v
			*dst = &s
		}
	}
	set(&u.BusinessType, p.BusinessType)
	set(&u.Industry, p.Industry)
	set(&u.ProductService, p.ProductService)
	set(&u.TargetAudience, p.TargetAudience)
	set(&u.CampaignGoal, p.CampaignGoal)
}

func setupService(t *testing.T) (*AuthService, *userRepoMock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := redis.NewClient("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	log, err := logger.New("error")
	require.NoError(t, err)

	cfg := &config.Config{
		GoogleClientID:     "test-client",
		GoogleClientSecret: "test-secret",
		GoogleRedirectURI:  "http://localhost:8080/api/auth/google/callback",
		SessionTTL:         720 * time.Hour,
		OAuthStateTTL:      10 * time.Minute,
	}

	repo := newUserRepoMock()
	return NewAuthService(cfg, repo, redisClient, log), repo, mr
}

func TestRegister(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, domain.ProviderEmail, resp.User.AuthProvider)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.TokenExpiresAt)
	assert.True(t, resp.User.TokenExpiresAt.After(time.Now().Add(719*time.Hour)))

	// The raw password must never be stored
	require.NotNil(t, resp.User.PasswordHash)
	assert.NotContains(t, *resp.User.PasswordHash, "supersecret")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &domain.RegisterRequest{Email: "BOB@example.com", Password: "othersecret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestRegister_InsertRaceIsConflict(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	// A concurrent registration can win the unique index after the
	// GetByEmail pre-check passed.
	repo.createErr = fmt.Errorf("create user: %w", repository.ErrDuplicate)

	_, err := svc.Register(ctx, &domain.RegisterRequest{Email: "racer@example.com", Password: "supersecret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"missing email", domain.RegisterRequest{Password: "supersecret"}},
		{"bad email", domain.RegisterRequest{Email: "not-an-email", Password: "supersecret"}},
		{"short password", domain.RegisterRequest{Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestLogin_RotatesSessionToken(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &domain.RegisterRequest{Email: "carol@example.com", Password: "supersecret"})
	require.NoError(t, err)
	firstToken := reg.Token

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "carol@example.com", Password: "supersecret"})
	require.NoError(t, err)

	assert.NotEqual(t, firstToken, login.Token)

	// The old token no longer resolves
	_, err = svc.ResolveToken(ctx, firstToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))

	user, err := svc.ResolveToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", user.Email)
}

func TestLogin_OpaqueFailures(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{Email: "dave@example.com", Password: "supersecret"})
	require.NoError(t, err)

	// Google-only account with no password hash
	require.NoError(t, repo.Create(ctx, &domain.User{
		ID:           "google-user",
		Email:        "gonly@example.com",
		Name:         "G Only",
		AuthProvider: domain.ProviderGoogle,
	}))

	tests := []struct {
		name string
		req  domain.LoginRequest
	}{
		{"unknown email", domain.LoginRequest{Email: "nobody@example.com", Password: "supersecret"}},
		{"wrong password", domain.LoginRequest{Email: "dave@example.com", Password: "wrongsecret"}},
		{"google-only account", domain.LoginRequest{Email: "gonly@example.com", Password: "supersecret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			// Identical message for every failure mode
			assert.Equal(t, "invalid email or password", appErr.Message)
		})
	}
}

func TestResolveToken_LazyExpiry(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &domain.RegisterRequest{Email: "eve@example.com", Password: "supersecret"})
	require.NoError(t, err)

	// Age the token past its expiry
	expired := time.Now().UTC().Add(-time.Hour)
	repo.mu.Lock()
	repo.users[reg.User.ID].TokenExpiresAt = &expired
	repo.mu.Unlock()

	_, err = svc.ResolveToken(ctx, reg.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))

	// The expired token was cleared from the store on first sight
	stored, err := repo.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SessionToken)
	assert.Nil(t, stored.TokenExpiresAt)
}

func TestLogout(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &domain.RegisterRequest{Email: "frank@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.User.ID))

	_, err = svc.ResolveToken(ctx, reg.Token)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestBeginGoogleLogin_StoresState(t *testing.T) {
	svc, _, mr := setupService(t)
	ctx := context.Background()

	authURL, err := svc.BeginGoogleLogin(ctx)
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "test-client", parsed.Query().Get("client_id"))
	assert.Equal(t, "offline", parsed.Query().Get("access_type"))
	assert.Contains(t, parsed.Query().Get("scope"), "email")

	// The state is stored with its TTL
	assert.True(t, mr.Exists("staging:auth:state:"+state))
}

func TestBeginGoogleLogin_Unconfigured(t *testing.T) {
	svc, _, _ := setupService(t)
	svc.oauthConfig.ClientID = ""

	_, err := svc.BeginGoogleLogin(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

// fakeGoogle stands in for the token and userinfo endpoints
func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fake-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":      "google-123",
			"email":   "oauth@example.com",
			"name":    "OAuth User",
			"picture": "https://example.com/p.png",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCompleteGoogleLogin_EndToEnd(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	google := fakeGoogle(t)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  google.URL + "/auth",
		TokenURL: google.URL + "/token",
	}
	svc.userInfoURL = google.URL + "/userinfo"

	authURL, err := svc.BeginGoogleLogin(ctx)
	require.NoError(t, err)

	parsed, _ := url.Parse(authURL)
	state := parsed.Query().Get("state")

	resp, err := svc.CompleteGoogleLogin(ctx, state, "fake-code")
	require.NoError(t, err)

	assert.Equal(t, "oauth@example.com", resp.User.Email)
	assert.Equal(t, domain.ProviderGoogle, resp.User.AuthProvider)
	require.NotNil(t, resp.User.Picture)
	assert.NotEmpty(t, resp.Token)

	user, err := svc.ResolveToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	// The state token is single-use: replaying the callback fails
	_, err = svc.CompleteGoogleLogin(ctx, state, "fake-code")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestCompleteGoogleLogin_TokenEndpointDownIsExternal(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream outage", http.StatusInternalServerError)
	}))
	t.Cleanup(google.Close)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  google.URL + "/auth",
		TokenURL: google.URL + "/token",
	}

	authURL, err := svc.BeginGoogleLogin(ctx)
	require.NoError(t, err)
	parsed, _ := url.Parse(authURL)
	state := parsed.Query().Get("state")

	_, err = svc.CompleteGoogleLogin(ctx, state, "fake-code")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestCompleteGoogleLogin_LinksExistingAccount(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	google := fakeGoogle(t)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  google.URL + "/auth",
		TokenURL: google.URL + "/token",
	}
	svc.userInfoURL = google.URL + "/userinfo"

	reg, err := svc.Register(ctx, &domain.RegisterRequest{Email: "oauth@example.com", Password: "supersecret"})
	require.NoError(t, err)

	authURL, err := svc.BeginGoogleLogin(ctx)
	require.NoError(t, err)
	parsed, _ := url.Parse(authURL)

	resp, err := svc.CompleteGoogleLogin(ctx, parsed.Query().Get("state"), "fake-code")
	require.NoError(t, err)

	// Same account, no duplicate, password login still possible
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.Equal(t, domain.ProviderEmail, resp.User.AuthProvider)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "oauth@example.com", Password: "supersecret"})
	require.NoError(t, err)
}

func TestCompleteGoogleLogin_UnknownState(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.CompleteGoogleLogin(context.Background(), "never-issued", "fake-code")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestCompleteGoogleLogin_ExpiredState(t *testing.T) {
	svc, _, mr := setupService(t)
	ctx := context.Background()

	authURL, err := svc.BeginGoogleLogin(ctx)
	require.NoError(t, err)
	parsed, _ := url.Parse(authURL)
	state := parsed.Query().Get("state")

	// Let the state TTL lapse
	mr.FastForward(11 * time.Minute)

	_, err = svc.CompleteGoogleLogin(ctx, state, "fake-code")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAuthentication))
}

func TestCompleteOnboarding(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &domain.RegisterRequest{Email: "grace@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.False(t, reg.User.OnboardingCompleted)

	updated, err := svc.CompleteOnboarding(ctx, reg.User.ID, &domain.BusinessProfile{
		BusinessType:   "E-commerce",
		Industry:       "Retail",
		ProductService: "Handmade candles",
		TargetAudience: "Home decor enthusiasts",
		CampaignGoal:   "Increase sales",
	})
	require.NoError(t, err)

	assert.True(t, updated.OnboardingCompleted)
	assert.NotNil(t, updated.OnboardingCompletedAt)
	require.NotNil(t, updated.Industry)
	assert.Equal(t, "Retail", *updated.Industry)
}
