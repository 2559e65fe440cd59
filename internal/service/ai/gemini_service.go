package ai

import (
	"context"
	"strings"

	"campaign-be/internal/domain"
	"campaign-be/internal/service"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"go.uber.org/zap"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const geminiModel = "models/gemini-1.5-flash"

// Service generates campaign copy with the Gemini API
type Service struct {
	apiKey string
	logger *logger.Logger
}

// NewService creates a new Gemini-backed content generator
func NewService(apiKey string, log *logger.Logger) service.ContentGenerator {
	return &Service{
		apiKey: apiKey,
		logger: log.Named("gemini"),
	}
}

// GenerateCampaign builds a prompt from the user's business profile and
// asks Gemini for a titled campaign draft.
func (s *Service) GenerateCampaign(ctx context.Context, user *domain.User, req *domain.CampaignRequest) (string, string, error) {
	if s.apiKey == "" {
		return "", "", apperrors.NewConfigurationError("Gemini API key is not configured")
	}

	client, err := generativelanguage.NewService(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		s.logger.WithError(err).Error("Failed to create Gemini client")
		return "", "", apperrors.NewInternalError("Failed to initialize content generator", err)
	}

	prompt := BuildPrompt(user, req)

	request := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Parts: []*generativelanguage.Part{
					{Text: prompt},
				},
			},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 3000,
		},
	}

	resp, err := client.Models.GenerateContent(geminiModel, request).Context(ctx).Do()
	if err != nil {
		s.logger.WithError(err).Error("Gemini generation failed")
		return "", "", apperrors.NewExternalError("Failed to generate campaign content", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", "", apperrors.NewExternalError("Gemini returned an empty response", nil)
	}

	title, content := SplitTitle(text, req.CampaignType)

	s.logger.Info("Campaign content generated",
		zap.String("campaign_type", req.CampaignType),
		zap.Int("content_length", len(content)))

	return title, content, nil
}

func extractText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	return strings.TrimSpace(sb.String())
}
