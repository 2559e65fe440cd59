package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS tracked_domains CASCADE`,
		`DROP TABLE IF EXISTS leads CASCADE`,
		`DROP TABLE IF EXISTS campaigns CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			picture TEXT,
			auth_provider VARCHAR(32) NOT NULL DEFAULT 'email',
			password_hash TEXT,
			session_token VARCHAR(64),
			token_expires_at TIMESTAMPTZ,
			business_type VARCHAR(255),
			industry VARCHAR(255),
			product_service TEXT,
			target_audience TEXT,
			campaign_goal TEXT,
			onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
			onboarding_completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_login_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email))`,
		`CREATE INDEX IF NOT EXISTS idx_users_session_token ON users (session_token) WHERE session_token IS NOT NULL`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(500) NOT NULL,
			campaign_type VARCHAR(32) NOT NULL,
			content TEXT NOT NULL,
			style VARCHAR(32) NOT NULL DEFAULT 'persuasive',
			status VARCHAR(32) NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			scheduled_at TIMESTAMPTZ,
			sent_count INTEGER NOT NULL DEFAULT 0,
			failed_count INTEGER NOT NULL DEFAULT 0,
			sent_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_user_id ON campaigns (user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			campaign_id UUID REFERENCES campaigns(id) ON DELETE SET NULL,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255),
			status VARCHAR(16) NOT NULL DEFAULT 'cold',
			last_interaction VARCHAR(32),
			interaction_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, email)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_user_id ON leads (user_id)`,

		`CREATE TABLE IF NOT EXISTS tracked_domains (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			last_crawled_at TIMESTAMPTZ,
			last_score INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tracked_domains_user_id ON tracked_domains (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tracked_domains_last_crawled ON tracked_domains (last_crawled_at NULLS FIRST)`,
	}

	for i, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %d: %w", i+1, err)
		}
	}
	fmt.Println("  Created: users, campaigns, leads, tracked_domains")

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	userID := uuid.New().String()
	_, err = conn.Exec(ctx, `
		INSERT INTO users (id, email, name, auth_provider, password_hash, business_type, industry, product_service, target_audience, campaign_goal, onboarding_completed, onboarding_completed_at)
		VALUES ($1, $2, $3, 'email', $4, 'E-commerce', 'Retail', 'Handmade candles', 'Home decor enthusiasts aged 25-45', 'Increase online sales', TRUE, now())
		ON CONFLICT DO NOTHING
	`, userID, "demo@example.com", "Demo User", string(hash))
	if err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	campaignID := uuid.New().String()
	_, err = conn.Exec(ctx, `
		INSERT INTO campaigns (id, user_id, title, campaign_type, content, style, status, sent_count, sent_at)
		VALUES ($1, $2, 'Spring Candle Collection', 'email', 'Light up your spring with our new collection...', 'persuasive', 'sent', 2, $3)
		ON CONFLICT DO NOTHING
	`, campaignID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to seed campaign: %w", err)
	}

	for _, email := range []string{"lead1@example.com", "lead2@example.com"} {
		_, err = conn.Exec(ctx, `
			INSERT INTO leads (id, user_id, campaign_id, email, status, last_interaction, interaction_at)
			VALUES ($1, $2, $3, $4, 'cold', 'sent', now())
			ON CONFLICT (user_id, email) DO NOTHING
		`, uuid.New().String(), userID, campaignID, email)
		if err != nil {
			return fmt.Errorf("failed to seed lead: %w", err)
		}
	}

	fmt.Println("  Seeded: demo@example.com / password123")
	return nil
}
