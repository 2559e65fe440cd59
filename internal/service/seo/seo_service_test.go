package seo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"campaign-be/internal/domain"
	"campaign-be/internal/repository"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"
	"campaign-be/pkg/redis"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// domainRepoMock is an in-memory DomainRepositoryInterface
type domainRepoMock struct {
	mu      sync.Mutex
	domains map[string]*domain.TrackedDomain
}

func newDomainRepoMock() *domainRepoMock {
	return &domainRepoMock{domains: make(map[string]*domain.TrackedDomain)}
}

func (m *domainRepoMock) Create(ctx context.Context, d *domain.TrackedDomain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Mirrors the UNIQUE (user_id, url) constraint
	for _, existing := range m.domains {
		if existing.UserID == d.UserID && existing.URL == d.URL {
			return fmt.Errorf("create tracked domain: %w", repository.ErrDuplicate)
		}
	}
	d.CreatedAt = time.Now().UTC()
	clone := *d
	m.domains[d.ID] = &clone
	return nil
}

func (m *domainRepoMock) GetByID(ctx context.Context, id, userID string) (*domain.TrackedDomain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.domains[id]; ok && d.UserID == userID {
		clone := *d
		return &clone, nil
	}
	return nil, nil
}

func (m *domainRepoMock) ListByUser(ctx context.Context, userID string) ([]*domain.TrackedDomain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.TrackedDomain, 0)
	for _, d := range m.domains {
		if d.UserID == userID {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *domainRepoMock) ListStale(ctx context.Context, olderThan time.Time) ([]*domain.TrackedDomain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.TrackedDomain, 0)
	for _, d := range m.domains {
		if d.LastCrawledAt == nil || d.LastCrawledAt.Before(olderThan) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *domainRepoMock) RecordCrawl(ctx context.Context, id string, score int, crawledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.domains[id]; ok {
		d.LastCrawledAt = &crawledAt
		d.LastScore = &score
	}
	return nil
}

func (m *domainRepoMock) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.domains[id]; ok && d.UserID == userID {
		delete(m.domains, id)
		return nil
	}
	return fmt.Errorf("tracked domain not found: %s", id)
}

func (m *domainRepoMock) CountByUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, d := range m.domains {
		if d.UserID == userID {
			count++
		}
	}
	return count, nil
}

func setupSEOService(t *testing.T) (*Service, *domainRepoMock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := redis.NewClient("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	log, err := logger.New("error")
	require.NoError(t, err)

	repo := newDomainRepoMock()
	return NewService(repo, redisClient, log), repo, mr
}

var goodPage = `<!DOCTYPE html>
<html>
<head>
	<title>Handmade Candles - Artisan Soy Candles Shop</title>
	<meta name="description" content="Shop our collection of handmade soy candles, crafted in small batches with natural ingredients and essential oils.">
	<meta name="keywords" content="candles, soy, handmade">
	<meta property="og:image" content="https://candles.example.com/og.jpg">
</head>
<body>
	<h1>Artisan Soy Candles</h1>
	<h2>New Arrivals</h2>
	<h2>Bestsellers</h2>
	<img src="/candle.jpg" alt="Lavender candle">
	<a href="/shop">Shop</a>
	<a href="/about">About</a>
	<a href="https://instagram.com/candles">Instagram</a>
	<p>` + strings.Repeat("word ", 400) + `</p>
</body>
</html>`

const badPage = `<html><head></head><body>
	<h1>One</h1><h1>Two</h1>
	<img src="/a.jpg"><img src="/b.jpg">
	<p>short text</p>
</body></html>`

func TestScoreDocument_CleanPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(goodPage))
	require.NoError(t, err)

	pageURL, _ := url.Parse("https://candles.example.com/")
	analysis := scoreDocument(doc, pageURL)

	assert.Equal(t, 100, analysis.Score)
	assert.Empty(t, analysis.Issues)
	assert.Equal(t, "candles, soy, handmade", analysis.MetaKeywords)
	assert.Equal(t, "https://candles.example.com/og.jpg", analysis.OGImage)
	assert.Equal(t, 1, analysis.H1Count)
	assert.Equal(t, 2, analysis.H2Count)
	assert.Equal(t, 1, analysis.ImageCount)
	assert.Equal(t, 0, analysis.ImagesNoAlt)
	assert.Equal(t, 2, analysis.InternalLinks)
	assert.Equal(t, 1, analysis.ExternalLinks)
	assert.True(t, analysis.WordCount >= 300)
}

func TestScoreDocument_ProblemPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(badPage))
	require.NoError(t, err)

	pageURL, _ := url.Parse("https://bad.example.com/")
	analysis := scoreDocument(doc, pageURL)

	// missing title, missing description, multiple h1, no alt text,
	// thin content, no internal links
	assert.Equal(t, 100-20-15-10-10-10-5, analysis.Score)
	assert.Len(t, analysis.Issues, 6)
	assert.Equal(t, 2, analysis.H1Count)
	assert.Equal(t, 2, analysis.ImagesNoAlt)
}

func TestAnalyze_FetchesAndCaches(t *testing.T) {
	svc, _, _ := setupSEOService(t)

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, goodPage)
	}))
	defer server.Close()

	analysis, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 100, analysis.Score)
	assert.Equal(t, "Handmade Candles - Artisan Soy Candles Shop", analysis.Title)

	// Second analysis of the same URL is served from cache
	again, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, analysis.Score, again.Score)
	assert.Equal(t, 1, hits)
}

func TestAnalyze_BadURL(t *testing.T) {
	svc, _, _ := setupSEOService(t)

	tests := []string{"", "   ", "ftp://example.com/file", "http://"}
	for _, raw := range tests {
		_, err := svc.Analyze(context.Background(), raw)
		require.Error(t, err, raw)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), raw)
	}
}

func TestAnalyze_UpstreamError(t *testing.T) {
	svc, _, _ := setupSEOService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := svc.Analyze(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestTrackDomain_SchemeDefaulting(t *testing.T) {
	svc, repo, _ := setupSEOService(t)

	tracked, err := svc.TrackDomain(context.Background(), "user-1", "candles.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://candles.example.com", tracked.URL)

	count, err := repo.CountByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTrackDomain_DuplicateIsConflict(t *testing.T) {
	svc, repo, _ := setupSEOService(t)
	ctx := context.Background()

	_, err := svc.TrackDomain(ctx, "user-1", "https://candles.example.com")
	require.NoError(t, err)

	_, err = svc.TrackDomain(ctx, "user-1", "candles.example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	// Another user may track the same URL
	_, err = svc.TrackDomain(ctx, "user-2", "https://candles.example.com")
	require.NoError(t, err)

	count, err := repo.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUntrackDomain(t *testing.T) {
	svc, _, _ := setupSEOService(t)
	ctx := context.Background()

	tracked, err := svc.TrackDomain(ctx, "user-1", "https://candles.example.com")
	require.NoError(t, err)

	// Another user cannot remove it
	err = svc.UntrackDomain(ctx, tracked.ID, "user-2")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, svc.UntrackDomain(ctx, tracked.ID, "user-1"))

	domains, err := svc.ListDomains(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, domains)
}

func TestCrawlStale(t *testing.T) {
	svc, repo, _ := setupSEOService(t)
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, goodPage)
	}))
	defer server.Close()

	tracked, err := svc.TrackDomain(ctx, "user-1", server.URL)
	require.NoError(t, err)

	// Fresh crawl happens because the domain was never crawled
	crawled, err := svc.CrawlStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, crawled)

	stored, err := repo.GetByID(ctx, tracked.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastCrawledAt)
	require.NotNil(t, stored.LastScore)
	assert.Equal(t, 100, *stored.LastScore)

	// A recently crawled domain is skipped
	crawled, err = svc.CrawlStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, crawled)
}

func TestCrawlStale_SurvivesFetchFailure(t *testing.T) {
	svc, repo, _ := setupSEOService(t)
	ctx := context.Background()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, goodPage)
	}))
	defer dead.Close()
	defer live.Close()

	_, err := svc.TrackDomain(ctx, "user-1", dead.URL)
	require.NoError(t, err)
	liveTracked, err := svc.TrackDomain(ctx, "user-1", live.URL)
	require.NoError(t, err)

	crawled, err := svc.CrawlStale(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, crawled)

	stored, err := repo.GetByID(ctx, liveTracked.ID, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastCrawledAt)
}
