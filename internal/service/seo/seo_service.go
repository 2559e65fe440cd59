package seo

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const fetchTimeout = 10 * time.Second

// Service scrapes pages, scores them and tracks domains for re-crawls
type Service struct {
	domainRepo repository.DomainRepositoryInterface
	redis      *redis.Client
	httpClient *http.Client
	logger     *logger.Logger
}

func NewService(domainRepo repository.DomainRepositoryInterface, redisClient *redis.Client, log *logger.Logger) *Service {
	return &Service{
		domainRepo: domainRepo,
		redis:      redisClient,
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     log.Named("seo"),
	}
}

// Analyze fetches a page and scores it. Recent results come from the
// cache so repeated dashboard loads do not hammer the target site.
func (s *Service) Analyze(ctx context.Context, pageURL string) (*domain.SEOAnalysis, error) {
	parsed, err := normalizeURL(pageURL)
	if err != nil {
		return nil, err
	}
	pageURL = parsed.String()

	cacheKey := s.redis.KeyBuilder.KeySEOResult(hashURL(pageURL))
	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var analysis domain.SEOAnalysis
		if err := json.Unmarshal([]byte(cached), &analysis); err == nil {
			return &analysis, nil
		}
	}

	analysis, err := s.fetchAndScore(ctx, parsed)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(analysis); err == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, redis.TTLSEOResult); err != nil {
			s.logger.Warn("SEO cache write failed", zap.Error(err))
		}
	}

	return analysis, nil
}

// TrackDomain registers a URL for periodic re-analysis
func (s *Service) TrackDomain(ctx context.Context, userID, pageURL string) (*domain.TrackedDomain, error) {
	parsed, err := normalizeURL(pageURL)
	if err != nil {
		return nil, err
	}

	d := &domain.TrackedDomain{
		ID:     uuid.New().String(),
		UserID: userID,
		URL:    parsed.String(),
	}

	if err := s.domainRepo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("domain is already tracked")
		}
		return nil, apperrors.NewInternalError("failed to track domain", err)
	}

	s.logger.Info("Domain tracked", zap.String("user_id", userID), zap.String("url", d.URL))
	return d, nil
}

// ListDomains lists the user's tracked domains
func (s *Service) ListDomains(ctx context.Context, userID string) ([]*domain.TrackedDomain, error) {
	domains, err := s.domainRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list tracked domains", err)
	}

	return domains, nil
}

// UntrackDomain stops watching a domain
func (s *Service) UntrackDomain(ctx context.Context, id, userID string) error {
	d, err := s.domainRepo.GetByID(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to load tracked domain", err)
	}
	if d == nil {
		return apperrors.NewNotFoundError("tracked domain not found")
	}

	if err := s.domainRepo.Delete(ctx, id, userID); err != nil {
		return apperrors.NewInternalError("failed to untrack domain", err)
	}

	return nil
}

// CrawlStale re-analyzes every domain whose last crawl is older than
// the cutoff. Failures are logged per domain and never abort the run.
func (s *Service) CrawlStale(ctx context.Context, olderThan time.Time) (int, error) {
	stale, err := s.domainRepo.ListStale(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale domains: %w", err)
	}

	crawled := 0
	for _, d := range stale {
		parsed, err := normalizeURL(d.URL)
		if err != nil {
			s.logger.Warn("Skipping tracked domain with bad URL",
				zap.String("domain_id", d.ID), zap.String("url", d.URL))
			continue
		}

		analysis, err := s.fetchAndScore(ctx, parsed)
		if err != nil {
			s.logger.Warn("Scheduled crawl failed",
				zap.String("domain_id", d.ID),
				zap.String("url", d.URL),
				zap.Error(err))
			continue
		}

		if err := s.domainRepo.RecordCrawl(ctx, d.ID, analysis.Score, analysis.AnalyzedAt); err != nil {
			s.logger.Error("Failed to record crawl result",
				zap.String("domain_id", d.ID), zap.Error(err))
			continue
		}
		crawled++
	}

	return crawled, nil
}

func (s *Service) fetchAndScore(ctx context.Context, pageURL *url.URL) (*domain.SEOAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request", err)
	}
	req.Header.Set("User-Agent", "campaign-be-seo/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("page returned status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to parse page HTML", err)
	}

	return scoreDocument(doc, pageURL), nil
}

// scoreDocument extracts on-page signals and applies the scoring
// heuristics. The score starts at 100 and each issue subtracts points.
func scoreDocument(doc *goquery.Document, pageURL *url.URL) *domain.SEOAnalysis {
	analysis := &domain.SEOAnalysis{
		URL:        pageURL.String(),
		Issues:     []string{},
		AnalyzedAt: time.Now().UTC(),
	}

	analysis.Title = strings.TrimSpace(doc.Find("title").First().Text())
	analysis.MetaDescription, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
	analysis.MetaDescription = strings.TrimSpace(analysis.MetaDescription)
	analysis.MetaKeywords, _ = doc.Find(`meta[name="keywords"]`).First().Attr("content")
	analysis.MetaKeywords = strings.TrimSpace(analysis.MetaKeywords)
	analysis.OGImage, _ = doc.Find(`meta[property="og:image"]`).First().Attr("content")
	analysis.OGImage = strings.TrimSpace(analysis.OGImage)

	analysis.H1Count = doc.Find("h1").Length()
	analysis.H2Count = doc.Find("h2").Length()

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		analysis.ImageCount++
		if alt, ok := sel.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			analysis.ImagesNoAlt++
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := pageURL.ResolveReference(link)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host == pageURL.Host {
			analysis.InternalLinks++
		} else {
			analysis.ExternalLinks++
		}
	})

	analysis.WordCount = len(strings.Fields(doc.Find("body").Text()))

	score := 100
	addIssue := func(penalty int, issue string) {
		score -= penalty
		analysis.Issues = append(analysis.Issues, issue)
	}

	switch n := len(analysis.Title); {
	case n == 0:
		addIssue(20, "missing <title> tag")
	case n < 30 || n > 60:
		addIssue(5, "title length outside the 30-60 character range")
	}

	switch n := len(analysis.MetaDescription); {
	case n == 0:
		addIssue(15, "missing meta description")
	case n < 70 || n > 160:
		addIssue(5, "meta description length outside the 70-160 character range")
	}

	switch analysis.H1Count {
	case 0:
		addIssue(15, "no <h1> heading")
	case 1:
		// exactly one h1 is what we want
	default:
		addIssue(10, "multiple <h1> headings")
	}

	if analysis.ImagesNoAlt > 0 {
		addIssue(10, fmt.Sprintf("%d image(s) without alt text", analysis.ImagesNoAlt))
	}
	if analysis.WordCount < 300 {
		addIssue(10, "thin content (under 300 words)")
	}
	if analysis.InternalLinks == 0 {
		addIssue(5, "no internal links")
	}

	if score < 0 {
		score = 0
	}
	analysis.Score = score

	return analysis
}

func normalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.NewValidationError("url is required", nil)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return nil, apperrors.NewValidationError("invalid url", map[string]interface{}{"url": raw})
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperrors.NewValidationError("url must use http or https", nil)
	}

	return parsed, nil
}

func hashURL(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return fmt.Sprintf("%x", sum[:8])
}
