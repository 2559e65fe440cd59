package domain

import "time"

// TrackedDomain is a site the crawler re-analyzes on an interval
type TrackedDomain struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	URL           string     `json:"url"`
	LastCrawledAt *time.Time `json:"last_crawled_at,omitempty"`
	LastScore     *int       `json:"last_score,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SEORequest is the payload for an on-demand page analysis
type SEORequest struct {
	URL string `json:"url"`
}

// TrackDomainRequest is the payload for registering a domain to watch
type TrackDomainRequest struct {
	URL string `json:"url"`
}

// SEOAnalysis is the result of scraping and scoring a single page
type SEOAnalysis struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	MetaKeywords    string    `json:"meta_keywords,omitempty"`
	OGImage         string    `json:"og_image,omitempty"`
	H1Count         int       `json:"h1_count"`
	H2Count         int       `json:"h2_count"`
	ImageCount      int       `json:"image_count"`
	ImagesNoAlt     int       `json:"images_no_alt"`
	InternalLinks   int       `json:"internal_links"`
	ExternalLinks   int       `json:"external_links"`
	WordCount       int       `json:"word_count"`
	Score           int       `json:"score"`
	Issues          []string  `json:"issues"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// DashboardStats is the aggregate view served to the dashboard
type DashboardStats struct {
	Campaigns       CampaignStats `json:"campaigns"`
	Leads           LeadStats     `json:"leads"`
	Domains         int           `json:"tracked_domains"`
	RecentCampaigns []*Campaign   `json:"recent_campaigns"`
}
