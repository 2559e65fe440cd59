package domain

import "time"

// Lead statuses
const (
	LeadStatusCold = "cold"
	LeadStatusWarm = "warm"
	LeadStatusHot  = "hot"
)

// Lead interaction types
const (
	InteractionSent    = "sent"
	InteractionOpened  = "opened"
	InteractionClicked = "clicked"
	InteractionReplied = "replied"
)

// Lead represents a campaign recipient being tracked
type Lead struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	CampaignID      *string    `json:"campaign_id,omitempty"`
	Email           string     `json:"email"`
	Name            *string    `json:"name,omitempty"`
	Status          string     `json:"status"`
	LastInteraction *string    `json:"last_interaction,omitempty"`
	InteractionAt   *time.Time `json:"interaction_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// LeadStatusUpdate is the payload for moving a lead through the funnel
type LeadStatusUpdate struct {
	Status          string `json:"status"`
	LastInteraction string `json:"last_interaction,omitempty"`
}

// LeadStats aggregates a user's lead funnel
type LeadStats struct {
	TotalLeads int            `json:"total_leads"`
	ByStatus   map[string]int `json:"by_status"`
}

// IsValidLeadStatus reports whether s is a supported lead status
func IsValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusCold, LeadStatusWarm, LeadStatusHot:
		return true
	}
	return false
}

// IsValidInteraction reports whether i is a supported interaction type
func IsValidInteraction(i string) bool {
	switch i {
	case InteractionSent, InteractionOpened, InteractionClicked, InteractionReplied:
		return true
	}
	return false
}
