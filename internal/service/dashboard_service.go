package service

import (
	"context"
	"encoding/json"

	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"

	"go.uber.org/zap"
)

// DashboardService aggregates per-user stats with a short Redis cache
type DashboardService struct {
	campaignRepo repository.CampaignRepositoryInterface
	leadRepo     repository.LeadRepositoryInterface
	domainRepo   repository.DomainRepositoryInterface
	redis        *redis.Client
	logger       *logger.Logger
}

func NewDashboardService(
	campaignRepo repository.CampaignRepositoryInterface,
	leadRepo repository.LeadRepositoryInterface,
	domainRepo repository.DomainRepositoryInterface,
	redisClient *redis.Client,
	log *logger.Logger,
) *DashboardService {
	return &DashboardService{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		domainRepo:   domainRepo,
		redis:        redisClient,
		logger:       log.Named("dashboard"),
	}
}

// GetStats returns the user's dashboard aggregates. Results are cached
// briefly; a cache failure falls through to the database.
func (s *DashboardService) GetStats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	cacheKey := s.redis.KeyBuilder.KeyDashboardUser(userID)

	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var stats domain.DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	} else if err != redis.Nil {
		s.logger.Warn("Dashboard cache read failed", zap.Error(err))
	}

	campaignStats, err := s.campaignRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load campaign stats", err)
	}

	leadStats, err := s.leadRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load lead stats", err)
	}

	domainCount, err := s.domainRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count tracked domains", err)
	}

	recent, err := s.campaignRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load recent campaigns", err)
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	stats := &domain.DashboardStats{
		Campaigns:       *campaignStats,
		Leads:           *leadStats,
		Domains:         domainCount,
		RecentCampaigns: recent,
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, redis.TTLDashboard); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}
