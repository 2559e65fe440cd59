package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campaign-be/internal/domain"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServiceStub resolves a single known token
type authServiceStub struct {
	validToken string
	user       *domain.User
}

func (s *authServiceStub) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if token == s.validToken {
		return s.user, nil
	}
	return nil, apperrors.NewAuthenticationError("invalid session token")
}

func (s *authServiceStub) BeginGoogleLogin(ctx context.Context) (string, error) { return "", nil }
func (s *authServiceStub) CompleteGoogleLogin(ctx context.Context, state, code string) (*domain.AuthResponse, error) {
	return nil, nil
}
func (s *authServiceStub) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	return nil, nil
}
func (s *authServiceStub) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	return nil, nil
}
func (s *authServiceStub) Logout(ctx context.Context, userID string) error { return nil }
func (s *authServiceStub) UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error) {
	return nil, nil
}
func (s *authServiceStub) CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error) {
	return nil, nil
}

func TestAuth(t *testing.T) {
	log, err := logger.New("error")
	require.NoError(t, err)

	stub := &authServiceStub{
		validToken: "good-token",
		user:       &domain.User{ID: "user-1", Email: "owner@example.com"},
	}

	var gotUser *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Auth(stub, log)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"valid token", "Bearer good-token", http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, false},
		{"empty token", "Bearer ", http.StatusUnauthorized, false},
		{"unknown token", "Bearer bad-token", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil

			req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUser {
				require.NotNil(t, gotUser)
				assert.Equal(t, "user-1", gotUser.ID)
			} else {
				assert.Nil(t, gotUser)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	log, err := logger.New("error")
	require.NoError(t, err)

	var ctxID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID, _ = r.Context().Value(RequestIDContextKey).(string)
	})

	rec := httptest.NewRecorder()
	RequestID(log)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, rec.Header().Get("X-Request-ID"))
}

func TestAuth_ErrorEnvelopeCarriesRequestID(t *testing.T) {
	log, err := logger.New("error")
	require.NoError(t, err)

	stub := &authServiceStub{validToken: "good-token"}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RequestID(log)(Auth(stub, log)(next))

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error.RequestID)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.Error.RequestID)
}
