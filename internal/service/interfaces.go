package service

import (
	"context"

	"campaign-be/internal/domain"
)

// AuthServiceInterface defines the session and identity operations
type AuthServiceInterface interface {
	BeginGoogleLogin(ctx context.Context) (string, error)
	CompleteGoogleLogin(ctx context.Context, state, code string) (*domain.AuthResponse, error)
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error)
	CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) (*domain.User, error)
}

// ContentGenerator produces campaign copy for a business profile
type ContentGenerator interface {
	GenerateCampaign(ctx context.Context, user *domain.User, req *domain.CampaignRequest) (title string, content string, err error)
}

// EmailSender delivers a single campaign email
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// CampaignServiceInterface defines campaign lifecycle operations
type CampaignServiceInterface interface {
	Generate(ctx context.Context, user *domain.User, req *domain.CampaignRequest) (*domain.Campaign, error)
	List(ctx context.Context, userID string) ([]*domain.Campaign, error)
	Get(ctx context.Context, id, userID string) (*domain.Campaign, error)
	Update(ctx context.Context, id, userID string, req *domain.CampaignUpdateRequest) (*domain.Campaign, error)
	Delete(ctx context.Context, id, userID string) error
	Schedule(ctx context.Context, id, userID string, req *domain.ScheduleRequest) (*domain.Campaign, error)
	SendEmails(ctx context.Context, id, userID string, req *domain.EmailSendRequest) (*domain.EmailSendResult, error)
}

// LeadServiceInterface defines lead tracking operations
type LeadServiceInterface interface {
	List(ctx context.Context, userID string) ([]*domain.Lead, error)
	UpdateStatus(ctx context.Context, id, userID string, req *domain.LeadStatusUpdate) (*domain.Lead, error)
}

// DashboardServiceInterface serves the aggregate dashboard view
type DashboardServiceInterface interface {
	GetStats(ctx context.Context, userID string) (*domain.DashboardStats, error)
}

// SEOServiceInterface defines page analysis and domain tracking
type SEOServiceInterface interface {
	Analyze(ctx context.Context, pageURL string) (*domain.SEOAnalysis, error)
	TrackDomain(ctx context.Context, userID, pageURL string) (*domain.TrackedDomain, error)
	ListDomains(ctx context.Context, userID string) ([]*domain.TrackedDomain, error)
	UntrackDomain(ctx context.Context, id, userID string) error
}
