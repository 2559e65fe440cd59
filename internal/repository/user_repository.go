package repository

import (
	"context"
	"fmt"
	"time"

	"campaign-be/internal/domain"
	"campaign-be/pkg/database"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, name, picture, auth_provider, password_hash,
	session_token, token_expires_at,
	business_type, industry, product_service, target_audience, campaign_goal,
	onboarding_completed, onboarding_completed_at,
	created_at, last_login_at
`

// Create inserts a new user row
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, name, picture, auth_provider, password_hash,
			session_token, token_expires_at, onboarding_completed, last_login_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Picture,
		user.AuthProvider,
		user.PasswordHash,
		user.SessionToken,
		user.TokenExpiresAt,
		user.OnboardingCompleted,
		user.LastLoginAt,
	).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail gets a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.Pool.QueryRow(ctx, query, email))
}

// GetBySessionToken gets a user by their current session token
func (r *UserRepository) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE session_token = $1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, query, token))
}

// UpdateSession stores a fresh session token and stamps the login time
func (r *UserRepository) UpdateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET session_token = $2, token_expires_at = $3, last_login_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

// ClearSession invalidates the user's current session token
func (r *UserRepository) ClearSession(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET session_token = NULL, token_expires_at = NULL
		WHERE id = $1
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// UpdateProfile updates the business profile fields that were provided.
// Empty strings leave the stored value untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, profile *domain.BusinessProfile) error {
	query := `
		UPDATE users
		SET business_type = COALESCE(NULLIF($2, ''), business_type),
		    industry = COALESCE(NULLIF($3, ''), industry),
		    product_service = COALESCE(NULLIF($4, ''), product_service),
		    target_audience = COALESCE(NULLIF($5, ''), target_audience),
		    campaign_goal = COALESCE(NULLIF($6, ''), campaign_goal)
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, userID,
		profile.BusinessType,
		profile.Industry,
		profile.ProductService,
		profile.TargetAudience,
		profile.CampaignGoal,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

// CompleteOnboarding stores the profile and marks onboarding done in one statement
func (r *UserRepository) CompleteOnboarding(ctx context.Context, userID string, profile *domain.BusinessProfile) error {
	query := `
		UPDATE users
		SET business_type = COALESCE(NULLIF($2, ''), business_type),
		    industry = COALESCE(NULLIF($3, ''), industry),
		    product_service = COALESCE(NULLIF($4, ''), product_service),
		    target_audience = COALESCE(NULLIF($5, ''), target_audience),
		    campaign_goal = COALESCE(NULLIF($6, ''), campaign_goal),
		    onboarding_completed = TRUE,
		    onboarding_completed_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, userID,
		profile.BusinessType,
		profile.Industry,
		profile.ProductService,
		profile.TargetAudience,
		profile.CampaignGoal,
	)
	if err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.AuthProvider,
		&user.PasswordHash,
		&user.SessionToken,
		&user.TokenExpiresAt,
		&user.BusinessType,
		&user.Industry,
		&user.ProductService,
		&user.TargetAudience,
		&user.CampaignGoal,
		&user.OnboardingCompleted,
		&user.OnboardingCompletedAt,
		&user.CreatedAt,
		&user.LastLoginAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
