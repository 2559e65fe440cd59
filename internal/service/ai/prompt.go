package ai

import (
	"fmt"
	"strings"

	"campaign-be/internal/domain"
)

// campaignTypeLabels maps campaign types to the wording used in prompts
var campaignTypeLabels = map[string]string{
	domain.CampaignTypeEmail:         "marketing email",
	domain.CampaignTypeSocialMedia:   "social media post",
	domain.CampaignTypeDirectMessage: "direct message",
}

// BuildPrompt assembles the generation prompt from the user's business
// profile. Empty profile fields are simply left out.
func BuildPrompt(user *domain.User, req *domain.CampaignRequest) string {
	label := campaignTypeLabels[req.CampaignType]
	if label == "" {
		label = "marketing campaign"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s %s for the following business.\n\n", req.Style, label)

	writeField := func(name string, value *string) {
		if value != nil && *value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", name, *value)
		}
	}

	writeField("Business type", user.BusinessType)
	writeField("Industry", user.Industry)
	writeField("Product or service", user.ProductService)
	writeField("Target audience", user.TargetAudience)
	writeField("Campaign goal", user.CampaignGoal)

	if req.CustomPrompt != "" {
		fmt.Fprintf(&sb, "\nAdditional instructions: %s\n", req.CustomPrompt)
	}

	sb.WriteString("\nStart your response with a single line \"Title: <campaign title>\" followed by the campaign content.")
	sb.WriteString(" Do not include any other commentary.")

	return sb.String()
}

// SplitTitle separates the "Title:" line from the body. When the model
// ignores the format, the whole text becomes the body under a fallback
// title.
func SplitTitle(text, campaignType string) (string, string) {
	lines := strings.SplitN(text, "\n", 2)
	first := strings.TrimSpace(lines[0])

	if strings.HasPrefix(strings.ToLower(first), "title:") {
		title := strings.TrimSpace(first[len("title:"):])
		title = strings.Trim(title, "\"*")
		content := ""
		if len(lines) > 1 {
			content = strings.TrimSpace(lines[1])
		}
		if title != "" && content != "" {
			return title, content
		}
	}

	label := campaignTypeLabels[campaignType]
	if label == "" {
		label = "campaign"
	}
	return fmt.Sprintf("Untitled %s", label), text
}
