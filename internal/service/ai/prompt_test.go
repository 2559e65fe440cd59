package ai

import (
	"testing"

	"campaign-be/internal/domain"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuildPrompt(t *testing.T) {
	user := &domain.User{
		BusinessType:   strPtr("E-commerce"),
		Industry:       strPtr("Retail"),
		ProductService: strPtr("Handmade candles"),
		TargetAudience: strPtr("Home decor enthusiasts"),
		CampaignGoal:   strPtr("Increase sales"),
	}

	prompt := BuildPrompt(user, &domain.CampaignRequest{
		CampaignType: domain.CampaignTypeEmail,
		Style:        "persuasive",
		CustomPrompt: "Mention the spring discount",
	})

	assert.Contains(t, prompt, "persuasive marketing email")
	assert.Contains(t, prompt, "Business type: E-commerce")
	assert.Contains(t, prompt, "Product or service: Handmade candles")
	assert.Contains(t, prompt, "Target audience: Home decor enthusiasts")
	assert.Contains(t, prompt, "Additional instructions: Mention the spring discount")
	assert.Contains(t, prompt, "Title:")
}

func TestBuildPrompt_EmptyProfile(t *testing.T) {
	prompt := BuildPrompt(&domain.User{}, &domain.CampaignRequest{
		CampaignType: domain.CampaignTypeSocialMedia,
		Style:        "casual",
	})

	assert.Contains(t, prompt, "casual social media post")
	assert.NotContains(t, prompt, "Business type:")
	assert.NotContains(t, prompt, "Additional instructions:")
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "well formed",
			text:        "Title: Spring Sale\nLight up your spring with 20% off.",
			wantTitle:   "Spring Sale",
			wantContent: "Light up your spring with 20% off.",
		},
		{
			name:        "quoted title",
			text:        "Title: \"Glow Up\"\nOur new collection is here.",
			wantTitle:   "Glow Up",
			wantContent: "Our new collection is here.",
		},
		{
			name:        "no title line",
			text:        "Just some campaign copy with no heading.",
			wantTitle:   "Untitled marketing email",
			wantContent: "Just some campaign copy with no heading.",
		},
		{
			name:        "title line with empty body",
			text:        "Title: Lonely",
			wantTitle:   "Untitled marketing email",
			wantContent: "Title: Lonely",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content := SplitTitle(tt.text, domain.CampaignTypeEmail)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantContent, content)
		})
	}
}
