package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignService owns the campaign lifecycle from generation to dispatch
type CampaignService struct {
	campaignRepo repository.CampaignRepositoryInterface
	leadRepo     repository.LeadRepositoryInterface
	generator    ContentGenerator
	emailSender  EmailSender
	logger       *logger.Logger
}

func NewCampaignService(
	campaignRepo repository.CampaignRepositoryInterface,
	leadRepo repository.LeadRepositoryInterface,
	generator ContentGenerator,
	emailSender EmailSender,
	log *logger.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		generator:    generator,
		emailSender:  emailSender,
		logger:       log.Named("campaign"),
	}
}

// ValidateRequest normalizes and checks a generation request
func ValidateRequest(req *domain.CampaignRequest) error {
	req.CampaignType = strings.TrimSpace(strings.ToLower(req.CampaignType))
	req.Style = strings.TrimSpace(strings.ToLower(req.Style))

	if req.Style == "" {
		req.Style = "persuasive"
	}

	if !domain.IsValidCampaignType(req.CampaignType) {
		return apperrors.NewValidationError("invalid campaign type", map[string]interface{}{
			"campaign_type": req.CampaignType,
			"valid_types":   []string{domain.CampaignTypeEmail, domain.CampaignTypeSocialMedia, domain.CampaignTypeDirectMessage},
		})
	}
	if !domain.IsValidCampaignStyle(req.Style) {
		return apperrors.NewValidationError("invalid campaign style", map[string]interface{}{
			"style":        req.Style,
			"valid_styles": domain.ValidCampaignStyles,
		})
	}

	return nil
}

// Generate asks the content generator for a draft and stores it.
// Generation needs the business profile, so onboarding must be done.
func (s *CampaignService) Generate(ctx context.Context, user *domain.User, req *domain.CampaignRequest) (*domain.Campaign, error) {
	if !user.OnboardingCompleted {
		return nil, apperrors.NewValidationError("complete onboarding before generating campaigns", nil)
	}

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	title, content, err := s.generator.GenerateCampaign(ctx, user, req)
	if err != nil {
		return nil, err
	}

	campaign := &domain.Campaign{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Title:        title,
		CampaignType: req.CampaignType,
		Content:      content,
		Style:        req.Style,
		Status:       domain.CampaignStatusDraft,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, apperrors.NewInternalError("failed to save campaign", err)
	}

	s.logger.Info("Campaign generated",
		zap.String("campaign_id", campaign.ID),
		zap.String("user_id", user.ID),
		zap.String("campaign_type", campaign.CampaignType))

	return campaign, nil
}

// List returns the user's campaigns, newest first
func (s *CampaignService) List(ctx context.Context, userID string) ([]*domain.Campaign, error) {
	campaigns, err := s.campaignRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list campaigns", err)
	}

	return campaigns, nil
}

// Get returns one campaign scoped to its owner
func (s *CampaignService) Get(ctx context.Context, id, userID string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load campaign", err)
	}
	if campaign == nil {
		return nil, apperrors.NewNotFoundError("campaign not found")
	}

	return campaign, nil
}

// Update edits the title and content of a draft campaign
func (s *CampaignService) Update(ctx context.Context, id, userID string, req *domain.CampaignUpdateRequest) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if campaign.Status != domain.CampaignStatusDraft && campaign.Status != domain.CampaignStatusScheduled {
		return nil, apperrors.NewValidationError("only draft or scheduled campaigns can be edited", nil)
	}

	if req.Title != "" {
		campaign.Title = req.Title
	}
	if req.Content != "" {
		campaign.Content = req.Content
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, apperrors.NewInternalError("failed to update campaign", err)
	}

	return campaign, nil
}

// Delete removes a campaign
func (s *CampaignService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, id, userID); err != nil {
		return apperrors.NewInternalError("failed to delete campaign", err)
	}

	s.logger.Info("Campaign deleted", zap.String("campaign_id", id), zap.String("user_id", userID))
	return nil
}

// Schedule marks a draft for later dispatch
func (s *CampaignService) Schedule(ctx context.Context, id, userID string, req *domain.ScheduleRequest) (*domain.Campaign, error) {
	campaign, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if campaign.Status != domain.CampaignStatusDraft {
		return nil, apperrors.NewValidationError("only draft campaigns can be scheduled", nil)
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, apperrors.NewValidationError("scheduled time must be in the future", nil)
	}

	scheduledAt := req.ScheduledAt.UTC()
	campaign.Status = domain.CampaignStatusScheduled
	campaign.ScheduledAt = &scheduledAt

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, apperrors.NewInternalError("failed to schedule campaign", err)
	}

	s.logger.Info("Campaign scheduled",
		zap.String("campaign_id", id),
		zap.Time("scheduled_at", scheduledAt))

	return campaign, nil
}

// SendEmails dispatches an email campaign to each recipient in turn.
// Every successful delivery records that recipient as a cold lead. A
// failed recipient never aborts the rest of the run.
func (s *CampaignService) SendEmails(ctx context.Context, id, userID string, req *domain.EmailSendRequest) (*domain.EmailSendResult, error) {
	if len(req.Recipients) == 0 {
		return nil, apperrors.NewValidationError("at least one recipient is required", nil)
	}

	campaign, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if campaign.CampaignType != domain.CampaignTypeEmail {
		return nil, apperrors.NewValidationError("only email campaigns can be sent by email", map[string]interface{}{
			"campaign_type": campaign.CampaignType,
		})
	}

	result := &domain.EmailSendResult{}
	for _, recipient := range req.Recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}

		if err := s.emailSender.Send(ctx, recipient, campaign.Title, campaign.Content); err != nil {
			result.FailedCount++
			result.FailedRecipients = append(result.FailedRecipients, recipient)
			continue
		}
		result.SentCount++

		lead := &domain.Lead{
			ID:              uuid.New().String(),
			UserID:          userID,
			CampaignID:      &campaign.ID,
			Email:           strings.ToLower(recipient),
			Status:          domain.LeadStatusCold,
			LastInteraction: strPtr(domain.InteractionSent),
		}
		if err := s.leadRepo.Upsert(ctx, lead); err != nil {
			s.logger.Warn("Failed to record lead",
				zap.String("campaign_id", id),
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	}

	now := time.Now().UTC()
	campaign.Status = domain.CampaignStatusSent
	campaign.SentCount += result.SentCount
	campaign.FailedCount += result.FailedCount
	campaign.SentAt = &now

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, apperrors.NewInternalError("failed to record campaign dispatch", err)
	}

	s.logger.Info("Campaign dispatched",
		zap.String("campaign_id", id),
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount))

	if result.SentCount == 0 {
		return result, apperrors.NewExternalError(
			fmt.Sprintf("all %d deliveries failed", result.FailedCount), nil)
	}

	return result, nil
}

func strPtr(s string) *string {
	return &s
}
