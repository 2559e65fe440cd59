package container

import (
	"context"
	"fmt"

	"campaign-be/internal/config"
	"campaign-be/internal/repository"
	"campaign-be/internal/service"
	"campaign-be/internal/service/ai"
	"campaign-be/internal/service/auth"
	"campaign-be/internal/service/seo"
	"campaign-be/pkg/database"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	UserRepo     *repository.UserRepository
	CampaignRepo *repository.CampaignRepository
	LeadRepo     *repository.LeadRepository
	DomainRepo   *repository.DomainRepository

	AuthService      *auth.AuthService
	CampaignService  *service.CampaignService
	LeadService      *service.LeadService
	DashboardService *service.DashboardService
	SEOService       *seo.Service
	Crawler          *seo.Crawler
}

// New wires the full dependency graph
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	domainRepo := repository.NewDomainRepository(db)

	authService := auth.NewAuthService(cfg, userRepo, redisClient, log)
	generator := ai.NewService(cfg.GeminiAPIKey, log)
	emailService := service.NewEmailService(cfg, log)
	campaignService := service.NewCampaignService(campaignRepo, leadRepo, generator, emailService, log)
	leadService := service.NewLeadService(leadRepo, log)
	dashboardService := service.NewDashboardService(campaignRepo, leadRepo, domainRepo, redisClient, log)
	seoService := seo.NewService(domainRepo, redisClient, log)
	crawler := seo.NewCrawler(seoService, cfg.CrawlInterval, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,

		UserRepo:     userRepo,
		CampaignRepo: campaignRepo,
		LeadRepo:     leadRepo,
		DomainRepo:   domainRepo,

		AuthService:      authService,
		CampaignService:  campaignService,
		LeadService:      leadService,
		DashboardService: dashboardService,
		SEOService:       seoService,
		Crawler:          crawler,
	}, nil
}

// Close releases the container's connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// Health pings the container's backing stores
func (c *Container) Health(ctx context.Context) error {
	if err := c.DB.Health(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	if err := c.RedisClient.Health(ctx); err != nil {
		return fmt.Errorf("redis unhealthy: %w", err)
	}
	return nil
}
