package domain

import "time"

// Auth provider tags
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User represents a registered account and its active session state.
// At most one session token is active per user; issuing a new one
// overwrites the previous token.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture,omitempty"`
	AuthProvider string  `json:"auth_provider"`
	PasswordHash *string `json:"-"`

	SessionToken   *string    `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`

	BusinessType          *string    `json:"business_type,omitempty"`
	Industry              *string    `json:"industry,omitempty"`
	ProductService        *string    `json:"product_service,omitempty"`
	TargetAudience        *string    `json:"target_audience,omitempty"`
	CampaignGoal          *string    `json:"campaign_goal,omitempty"`
	OnboardingCompleted   bool       `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// BusinessProfile carries the onboarding fields used for campaign generation
type BusinessProfile struct {
	BusinessType   string `json:"business_type"`
	Industry       string `json:"industry"`
	ProductService string `json:"product_service"`
	TargetAudience string `json:"target_audience"`
	CampaignGoal   string `json:"campaign_goal"`
}

// RegisterRequest is the payload for email/password registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and the OAuth callback
type AuthResponse struct {
	User    *User  `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}
