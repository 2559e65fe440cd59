package repository

import (
	"context"
	"fmt"

	"campaign-be/internal/domain"
	"campaign-be/pkg/database"
	"github.com/jackc/pgx/v5"
)

type CampaignRepository struct {
	db *database.PostgresDB
}

func NewCampaignRepository(db *database.PostgresDB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `
	id, user_id, title, campaign_type, content, style, status,
	created_at, scheduled_at, sent_count, failed_count, sent_at
`

// Create inserts a new campaign row
func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (
			id, user_id, title, campaign_type, content, style, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		campaign.ID,
		campaign.UserID,
		campaign.Title,
		campaign.CampaignType,
		campaign.Content,
		campaign.Style,
		campaign.Status,
	).Scan(&campaign.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// GetByID gets a campaign scoped to its owner
func (r *CampaignRepository) GetByID(ctx context.Context, id, userID string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND user_id = $2`

	campaign, err := r.scanCampaign(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// ListByUser lists a user's campaigns, newest first
func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := r.scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read campaigns: %w", err)
	}

	return campaigns, nil
}

// Update persists the mutable campaign fields
func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $3, content = $4, status = $5, scheduled_at = $6,
		    sent_count = $7, failed_count = $8, sent_at = $9
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		campaign.ID,
		campaign.UserID,
		campaign.Title,
		campaign.Content,
		campaign.Status,
		campaign.ScheduledAt,
		campaign.SentCount,
		campaign.FailedCount,
		campaign.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign not found: %s", campaign.ID)
	}

	return nil
}

// Delete removes a campaign scoped to its owner
func (r *CampaignRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign not found: %s", id)
	}

	return nil
}

// GetStats aggregates a user's campaign counters
func (r *CampaignRepository) GetStats(ctx context.Context, userID string) (*domain.CampaignStats, error) {
	stats := &domain.CampaignStats{
		CampaignsByType: make(map[string]int),
	}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status IN ('sent', 'completed')),
		       COALESCE(SUM(sent_count), 0)
		FROM campaigns
		WHERE user_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&stats.TotalCampaigns,
		&stats.DraftCampaigns,
		&stats.SentCampaigns,
		&stats.TotalEmailsSent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign stats: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT campaign_type, COUNT(*) FROM campaigns WHERE user_id = $1 GROUP BY campaign_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var campaignType string
		var count int
		if err := rows.Scan(&campaignType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan campaign type stats: %w", err)
		}
		stats.CampaignsByType[campaignType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read campaign type stats: %w", err)
	}

	return stats, nil
}

func (r *CampaignRepository) scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var campaign domain.Campaign

	err := row.Scan(
		&campaign.ID,
		&campaign.UserID,
		&campaign.Title,
		&campaign.CampaignType,
		&campaign.Content,
		&campaign.Style,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.ScheduledAt,
		&campaign.SentCount,
		&campaign.FailedCount,
		&campaign.SentAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &campaign, nil
}
