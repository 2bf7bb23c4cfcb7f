package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/iho/gobudget/internal/adapter/http"
	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/rates"
	postgresRepo "github.com/iho/gobudget/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobudget/internal/adapter/repository/redis"
	"github.com/iho/gobudget/internal/infrastructure/auth"
	"github.com/iho/gobudget/internal/infrastructure/config"
	"github.com/iho/gobudget/internal/infrastructure/logger"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/infrastructure/postgres"
	"github.com/iho/gobudget/internal/infrastructure/redis"
	"github.com/iho/gobudget/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	currencyRepo := postgresRepo.NewCurrencyRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	referenceRepo := postgresRepo.NewReferenceRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Exchange rates, cached in Redis
	rateSource := rates.NewCachedSource(
		rates.NewAPILayerSource(cfg.RatesURL, cfg.RatesAPIKey, cfg.RatesTimeout),
		redisRepo.NewCache(redisClient, "rates:"),
		cfg.RatesTTL,
	)

	appMetrics := metrics.New()

	// Initialize use cases
	validator := usecase.NewReferentialValidator(referenceRepo)
	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, entryRepo, validator, idGen)
	entryUC := usecase.NewEntryUseCase(txManager, retrier, walletRepo, entryRepo, currencyRepo, rateSource, validator, idGen, appMetrics)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	walletHandler := handler.NewWalletHandler(walletUC)
	entryHandler := handler.NewEntryHandler(entryUC)
	referenceHandler := handler.NewReferenceHandler(currencyRepo, categoryRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      authHandler,
		WalletHandler:    walletHandler,
		EntryHandler:     entryHandler,
		ReferenceHandler: referenceHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
		RateLimitPerSec:  cfg.RateLimitPerSecond,
		RateLimitBurst:   cfg.RateLimitBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Report pool usage while the server runs.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			appMetrics.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
