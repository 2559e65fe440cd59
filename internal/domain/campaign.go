package domain

import "time"

// Campaign types
const (
	CampaignTypeEmail         = "email"
	CampaignTypeSocialMedia   = "social_media"
	CampaignTypeDirectMessage = "direct_message"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSent      = "sent"
	CampaignStatusCompleted = "completed"
)

// ValidCampaignStyles are the tones the generator accepts
var ValidCampaignStyles = []string{"persuasive", "informative", "casual", "professional", "urgent", "friendly"}

// Campaign represents a generated marketing campaign
type Campaign struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	CampaignType string     `json:"campaign_type"`
	Content      string     `json:"content"`
	Style        string     `json:"style"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	SentCount    int        `json:"sent_count"`
	FailedCount  int        `json:"failed_count"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
}

// CampaignRequest is the payload for AI campaign generation
type CampaignRequest struct {
	CampaignType string `json:"campaign_type"`
	Style        string `json:"style"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

// CampaignUpdateRequest is the payload for editing a draft
type CampaignUpdateRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// EmailSendRequest is the payload for dispatching an email campaign
type EmailSendRequest struct {
	Recipients []string `json:"recipients"`
}

// EmailSendResult summarizes a dispatch run
type EmailSendResult struct {
	SentCount        int      `json:"sent_count"`
	FailedCount      int      `json:"failed_count"`
	FailedRecipients []string `json:"failed_recipients,omitempty"`
}

// ScheduleRequest is the payload for scheduling a campaign
type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

// CampaignStats aggregates per-user campaign performance
type CampaignStats struct {
	TotalCampaigns  int            `json:"total_campaigns"`
	DraftCampaigns  int            `json:"draft_campaigns"`
	SentCampaigns   int            `json:"sent_campaigns"`
	TotalEmailsSent int            `json:"total_emails_sent"`
	CampaignsByType map[string]int `json:"campaigns_by_type"`
}

// IsValidCampaignType reports whether t is a supported campaign type
func IsValidCampaignType(t string) bool {
	switch t {
	case CampaignTypeEmail, CampaignTypeSocialMedia, CampaignTypeDirectMessage:
		return true
	}
	return false
}

// IsValidCampaignStyle reports whether s is a supported campaign style
func IsValidCampaignStyle(s string) bool {
	for _, style := range ValidCampaignStyles {
		if s == style {
			return true
		}
	}
	return false
}
