package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	DatabaseURL string
	RedisURL    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	FrontendURL        string

	GeminiAPIKey string

	SMTPHost         string
	SMTPPort         int
	SenderEmail      string
	EmailAppPassword string

	SessionTTL    time.Duration
	OAuthStateTTL time.Duration
	CrawlInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getIntEnv("SMTP_PORT", 587),
		SenderEmail:      getEnv("SENDER_EMAIL", ""),
		EmailAppPassword: getEnv("EMAIL_APP_PASSWORD", ""),

		// Session tokens live for 30 days; OAuth CSRF states for 10 minutes
		SessionTTL:    time.Duration(getIntEnv("SESSION_TTL_HOURS", 720)) * time.Hour,
		OAuthStateTTL: time.Duration(getIntEnv("OAUTH_STATE_TTL_MINUTES", 10)) * time.Minute,
		CrawlInterval: time.Duration(getIntEnv("CRAWL_INTERVAL_MINUTES", 1440)) * time.Minute,
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
