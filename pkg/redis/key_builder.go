package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyOAuthState builds the key holding a pending OAuth CSRF state token
func (kb *KeyBuilder) KeyOAuthState(state string) string {
	return kb.BuildKey(fmt.Sprintf(KeyOAuthState, state))
}

// KeyDashboardUser builds the key caching a user's dashboard aggregate
func (kb *KeyBuilder) KeyDashboardUser(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDashboardUser, userID))
}

// KeySEOResult builds the key caching an SEO analysis by URL hash
func (kb *KeyBuilder) KeySEOResult(urlHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeySEOResult, urlHash))
}
