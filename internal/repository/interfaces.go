package repository

import (
	"context"
	"time"

	"campaign-be/internal/domain"
)

// UserRepositoryInterface defines the contract for user persistence
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)
	UpdateSession(ctx context.Context, userID, token string, expiresAt time.Time) error
	ClearSession(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) error
	CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) error
}

// CampaignRepositoryInterface defines the contract for campaign persistence
type CampaignRepositoryInterface interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id, userID string) (*domain.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, id, userID string) error
	GetStats(ctx context.Context, userID string) (*domain.CampaignStats, error)
}

// LeadRepositoryInterface defines the contract for lead persistence
type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id, userID string) (*domain.Lead, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Lead, error)
	UpdateStatus(ctx context.Context, id, userID, status, interaction string) error
	GetStats(ctx context.Context, userID string) (*domain.LeadStats, error)
}

// DomainRepositoryInterface defines the contract for tracked-domain persistence
type DomainRepositoryInterface interface {
	Create(ctx context.Context, d *domain.TrackedDomain) error
	GetByID(ctx context.Context, id, userID string) (*domain.TrackedDomain, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TrackedDomain, error)
	ListStale(ctx context.Context, olderThan time.Time) ([]*domain.TrackedDomain, error)
	RecordCrawl(ctx context.Context, id string, score int, crawledAt time.Time) error
	Delete(ctx context.Context, id, userID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
