package repository

import (
	"context"
	"fmt"
	"time"

	"campaign-be/internal/domain"
	"campaign-be/pkg/database"
	"github.com/jackc/pgx/v5"
)

type DomainRepository struct {
	db *database.PostgresDB
}

func NewDomainRepository(db *database.PostgresDB) *DomainRepository {
	return &DomainRepository{db: db}
}

const trackedDomainColumns = `
	id, user_id, url, last_crawled_at, last_score, created_at
`

// Create registers a new tracked domain
func (r *DomainRepository) Create(ctx context.Context, d *domain.TrackedDomain) error {
	query := `
		INSERT INTO tracked_domains (id, user_id, url)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query, d.ID, d.UserID, d.URL).Scan(&d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create tracked domain: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create tracked domain: %w", err)
	}

	return nil
}

// GetByID gets a tracked domain scoped to its owner
func (r *DomainRepository) GetByID(ctx context.Context, id, userID string) (*domain.TrackedDomain, error) {
	query := `SELECT ` + trackedDomainColumns + ` FROM tracked_domains WHERE id = $1 AND user_id = $2`
	return r.scanDomain(r.db.Pool.QueryRow(ctx, query, id, userID))
}

// ListByUser lists a user's tracked domains
func (r *DomainRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TrackedDomain, error) {
	query := `SELECT ` + trackedDomainColumns + ` FROM tracked_domains WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked domains: %w", err)
	}
	defer rows.Close()

	domains := make([]*domain.TrackedDomain, 0)
	for rows.Next() {
		d, err := r.scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracked domains: %w", err)
	}

	return domains, nil
}

// ListStale returns domains never crawled or last crawled before the cutoff
func (r *DomainRepository) ListStale(ctx context.Context, olderThan time.Time) ([]*domain.TrackedDomain, error) {
	query := `
		SELECT ` + trackedDomainColumns + `
		FROM tracked_domains
		WHERE last_crawled_at IS NULL OR last_crawled_at < $1
		ORDER BY last_crawled_at ASC NULLS FIRST
	`

	rows, err := r.db.Pool.Query(ctx, query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale domains: %w", err)
	}
	defer rows.Close()

	domains := make([]*domain.TrackedDomain, 0)
	for rows.Next() {
		d, err := r.scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale domains: %w", err)
	}

	return domains, nil
}

// RecordCrawl stamps a crawl result on the domain
func (r *DomainRepository) RecordCrawl(ctx context.Context, id string, score int, crawledAt time.Time) error {
	query := `
		UPDATE tracked_domains
		SET last_crawled_at = $2, last_score = $3
		WHERE id = $1
	`

	if _, err := r.db.Pool.Exec(ctx, query, id, crawledAt, score); err != nil {
		return fmt.Errorf("failed to record crawl: %w", err)
	}

	return nil
}

// Delete removes a tracked domain scoped to its owner
func (r *DomainRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tracked_domains WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tracked domain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tracked domain not found: %s", id)
	}

	return nil
}

// CountByUser counts a user's tracked domains
func (r *DomainRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tracked_domains WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracked domains: %w", err)
	}

	return count, nil
}

func (r *DomainRepository) scanDomain(row pgx.Row) (*domain.TrackedDomain, error) {
	var d domain.TrackedDomain

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.URL,
		&d.LastCrawledAt,
		&d.LastScore,
		&d.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked domain: %w", err)
	}

	return &d, nil
}
