package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	WalletHandler    *handler.WalletHandler
	EntryHandler     *handler.EntryHandler
	ReferenceHandler *handler.ReferenceHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
	RateLimitPerSec  float64
	RateLimitBurst   int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimitPerSec > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst)
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				limiter.CleanupLimiters()
			}
		}()
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
				r.Get("/me", cfg.AuthHandler.GetCurrentUser)
			})
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Route("/wallets", func(r chi.Router) {
				r.Post("/", cfg.WalletHandler.Create)
				r.Get("/", cfg.WalletHandler.List)
				r.Get("/{id}", cfg.WalletHandler.Get)
				r.Delete("/{id}", cfg.WalletHandler.Delete)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Post("/", cfg.EntryHandler.Create)
				r.Get("/", cfg.EntryHandler.List)
				r.Get("/{id}", cfg.EntryHandler.Get)
				r.Patch("/{id}", cfg.EntryHandler.Update)
				r.Delete("/{id}", cfg.EntryHandler.Delete)
			})

			r.Route("/currencies", func(r chi.Router) {
				r.Get("/", cfg.ReferenceHandler.ListCurrencies)
				r.Get("/{id}", cfg.ReferenceHandler.GetCurrency)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", cfg.ReferenceHandler.ListCategories)
				r.Get("/{id}", cfg.ReferenceHandler.GetCategory)
			})
		})
	})

	return r
}
