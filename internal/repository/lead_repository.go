package repository

import (
	"context"
	"fmt"

	"campaign-be/internal/domain"
	"campaign-be/pkg/database"
	"github.com/jackc/pgx/v5"
)

type LeadRepository struct {
	db *database.PostgresDB
}

func NewLeadRepository(db *database.PostgresDB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `
	id, user_id, campaign_id, email, name, status,
	last_interaction, interaction_at, created_at
`

// Upsert inserts a lead, or refreshes its interaction when the user
// already has a lead for that email address.
func (r *LeadRepository) Upsert(ctx context.Context, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (
			id, user_id, campaign_id, email, name, status, last_interaction, interaction_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, email) DO UPDATE
		SET campaign_id = EXCLUDED.campaign_id,
		    last_interaction = EXCLUDED.last_interaction,
		    interaction_at = now()
		RETURNING id, status, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		lead.ID,
		lead.UserID,
		lead.CampaignID,
		lead.Email,
		lead.Name,
		lead.Status,
		lead.LastInteraction,
	).Scan(&lead.ID, &lead.Status, &lead.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert lead: %w", err)
	}

	return nil
}

// GetByID gets a lead scoped to its owner
func (r *LeadRepository) GetByID(ctx context.Context, id, userID string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`
	return r.scanLead(r.db.Pool.QueryRow(ctx, query, id, userID))
}

// ListByUser lists a user's leads, most recently touched first
func (r *LeadRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE user_id = $1
		ORDER BY interaction_at DESC NULLS LAST, created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := r.scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leads: %w", err)
	}

	return leads, nil
}

// UpdateStatus moves a lead through the funnel and records the interaction
func (r *LeadRepository) UpdateStatus(ctx context.Context, id, userID, status, interaction string) error {
	query := `
		UPDATE leads
		SET status = $3,
		    last_interaction = COALESCE(NULLIF($4, ''), last_interaction),
		    interaction_at = now()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, userID, status, interaction)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead not found: %s", id)
	}

	return nil
}

// GetStats aggregates the user's lead funnel
func (r *LeadRepository) GetStats(ctx context.Context, userID string) (*domain.LeadStats, error) {
	stats := &domain.LeadStats{
		ByStatus: make(map[string]int),
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan lead stats: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalLeads += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lead stats: %w", err)
	}

	return stats, nil
}

func (r *LeadRepository) scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead

	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.CampaignID,
		&lead.Email,
		&lead.Name,
		&lead.Status,
		&lead.LastInteraction,
		&lead.InteractionAt,
		&lead.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}
