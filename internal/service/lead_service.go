package service

import (
	"context"

	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"go.uber.org/zap"
)

// LeadService tracks campaign recipients through the funnel
type LeadService struct {
	leadRepo repository.LeadRepositoryInterface
	logger   *logger.Logger
}

func NewLeadService(leadRepo repository.LeadRepositoryInterface, log *logger.Logger) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		logger:   log.Named("lead"),
	}
}

// List returns the user's leads, most recently touched first
func (s *LeadService) List(ctx context.Context, userID string) ([]*domain.Lead, error) {
	leads, err := s.leadRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list leads", err)
	}

	return leads, nil
}

// UpdateStatus moves a lead through the funnel
func (s *LeadService) UpdateStatus(ctx context.Context, id, userID string, req *domain.LeadStatusUpdate) (*domain.Lead, error) {
	if !domain.IsValidLeadStatus(req.Status) {
		return nil, apperrors.NewValidationError("invalid lead status", map[string]interface{}{
			"status":         req.Status,
			"valid_statuses": []string{domain.LeadStatusCold, domain.LeadStatusWarm, domain.LeadStatusHot},
		})
	}
	if req.LastInteraction != "" && !domain.IsValidInteraction(req.LastInteraction) {
		return nil, apperrors.NewValidationError("invalid interaction type", map[string]interface{}{
			"last_interaction": req.LastInteraction,
		})
	}

	lead, err := s.leadRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load lead", err)
	}
	if lead == nil {
		return nil, apperrors.NewNotFoundError("lead not found")
	}

	if err := s.leadRepo.UpdateStatus(ctx, id, userID, req.Status, req.LastInteraction); err != nil {
		return nil, apperrors.NewInternalError("failed to update lead", err)
	}

	s.logger.Info("Lead status updated",
		zap.String("lead_id", id),
		zap.String("status", req.Status))

	return s.leadRepo.GetByID(ctx, id, userID)
}
