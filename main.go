package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"campaign-be/internal/config"
	"campaign-be/internal/container"
	"campaign-be/internal/handler"
	"campaign-be/internal/middleware"
	"campaign-be/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Stop accepting new requests first
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		if err := r.container.Crawler.Stop(ctx); err != nil {
			r.log.WithError(err).Error("Failed to stop domain crawler")
			errs = append(errs, fmt.Errorf("crawler shutdown: %w", err))
		}
		r.container.Close()
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting campaign-be server")

	ctx := context.Background()

	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Periodic re-analysis of tracked domains
	if err := c.Crawler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start domain crawler")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c)
	authHandler := handler.NewAuthHandler(c.AuthService, cfg.FrontendURL, log)
	campaignHandler := handler.NewCampaignHandler(c.CampaignService, log)
	leadHandler := handler.NewLeadHandler(c.LeadService, log)
	dashboardHandler := handler.NewDashboardHandler(c.DashboardService, log)
	seoHandler := handler.NewSEOHandler(c.SEOService, log)

	// Health checks (no auth required)
	r.Get("/health", healthHandler.Check)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Get("/google/login", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Session-bound endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(c.AuthService, log))

				r.Post("/logout", authHandler.Logout)
			})
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.AuthService, log))

			r.Get("/profile", authHandler.Me)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Post("/onboarding", authHandler.CompleteOnboarding)

			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/generate", campaignHandler.Generate)
				r.Get("/", campaignHandler.List)
				r.Get("/{id}", campaignHandler.Get)
				r.Put("/{id}", campaignHandler.Update)
				r.Delete("/{id}", campaignHandler.Delete)
				r.Post("/{id}/schedule", campaignHandler.Schedule)
				r.Post("/{id}/send-email", campaignHandler.Send)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadHandler.List)
				r.Put("/{id}/status", leadHandler.UpdateStatus)
			})

			r.Get("/dashboard", dashboardHandler.Stats)

			r.Post("/seo/analyze", seoHandler.Analyze)

			r.Route("/domains", func(r chi.Router) {
				r.Post("/", seoHandler.TrackDomain)
				r.Get("/", seoHandler.ListDomains)
				r.Delete("/{id}", seoHandler.UntrackDomain)
			})
		})
	})

	return r
}
