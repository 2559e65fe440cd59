package seo

import (
	"context"
	"sync"
	"time"

	"campaign-be/pkg/logger"

	"go.uber.org/zap"
)

// Crawler re-analyzes tracked domains on a fixed interval
type Crawler struct {
	service  *Service
	interval time.Duration
	logger   *logger.Logger

	ticker    *time.Ticker
	stopCh    chan struct{}
	mu        sync.Mutex
	isRunning bool
}

func NewCrawler(service *Service, interval time.Duration, log *logger.Logger) *Crawler {
	return &Crawler{
		service:  service,
		interval: interval,
		logger:   log.Named("crawler"),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic crawl routine
func (c *Crawler) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return nil
	}

	c.logger.Info("Starting domain crawler", zap.Duration("interval", c.interval))

	c.ticker = time.NewTicker(c.interval)
	go c.run(ctx)

	c.isRunning = true
	return nil
}

// Stop shuts the crawl routine down
func (c *Crawler) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return nil
	}

	c.ticker.Stop()
	close(c.stopCh)

	c.isRunning = false
	c.logger.Info("Domain crawler stopped")
	return nil
}

func (c *Crawler) run(ctx context.Context) {
	for {
		select {
		case <-c.ticker.C:
			cutoff := time.Now().UTC().Add(-c.interval)
			crawled, err := c.service.CrawlStale(ctx, cutoff)
			if err != nil {
				c.logger.Error("Crawl pass failed", zap.Error(err))
				continue
			}
			if crawled > 0 {
				c.logger.Info("Crawl pass completed", zap.Int("domains", crawled))
			}
		case <-c.stopCh:
			c.logger.Debug("Crawl routine stopped")
			return
		case <-ctx.Done():
			c.logger.Debug("Crawl routine cancelled")
			return
		}
	}
}
