package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/kosherbill/internal/adapter/http"
	"github.com/iho/kosherbill/internal/adapter/http/handler"
	"github.com/iho/kosherbill/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/kosherbill/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/kosherbill/internal/adapter/repository/redis"
	"github.com/iho/kosherbill/internal/billing"
	"github.com/iho/kosherbill/internal/infrastructure/auth"
	"github.com/iho/kosherbill/internal/infrastructure/config"
	"github.com/iho/kosherbill/internal/infrastructure/eventpublisher"
	"github.com/iho/kosherbill/internal/infrastructure/logger"
	"github.com/iho/kosherbill/internal/infrastructure/logging"
	"github.com/iho/kosherbill/internal/infrastructure/metrics"
	"github.com/iho/kosherbill/internal/infrastructure/payment"
	"github.com/iho/kosherbill/internal/infrastructure/postgres"
	"github.com/iho/kosherbill/internal/infrastructure/redis"
	"github.com/iho/kosherbill/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers: zerolog for HTTP access logs, slog for workers
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	defaults, err := cfg.BillingDefaults()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid billing configuration")
	}

	ctx := context.Background()

	// Run migrations
	if path := resolveMigrationsPath(); path != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, path); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	bookingRepo := postgresRepo.NewBookingRepository(pool)
	timeEntryRepo := postgresRepo.NewTimeEntryRepository(pool)
	assignmentRepo := postgresRepo.NewAssignmentRepository(pool)
	reportRepo := postgresRepo.NewReportRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Payment provider verification is optional in development
	var verifier usecase.PaymentVerifier
	if cfg.PaymentVerifyURL != "" {
		verifier = payment.NewHTTPVerifier(cfg.PaymentVerifyURL, cfg.PaymentAPIKey, cfg.PaymentTimeout)
	}

	calculator := billing.NewCalculator(defaults.DayWindow)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, ledgerRepo, idGen, retrier)
	bookingUC := usecase.NewBookingUseCase(txManager, bookingRepo, ledgerUC, auditRepo, outboxRepo, idGen, retrier, calculator, defaults)
	timeEntryUC := usecase.NewTimeEntryUseCase(txManager, timeEntryRepo, assignmentRepo, idGen, retrier, defaults)
	assignmentUC := usecase.NewAssignmentUseCase(assignmentRepo, accountRepo, idGen, defaults.HourlyRate)
	reportUC := usecase.NewReportUseCase(reportRepo, cache)
	webhookUC := usecase.NewWebhookUseCase(ledgerUC, accountRepo, verifier)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(pool, redisClient)
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	bookingHandler := handler.NewBookingHandler(bookingUC)
	timeEntryHandler := handler.NewTimeEntryHandler(timeEntryUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, accountRepo)
	assignmentHandler := handler.NewAssignmentHandler(assignmentUC)
	reportHandler := handler.NewReportHandler(reportUC)
	webhookHandler := handler.NewWebhookHandler(webhookUC)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HealthHandler:     healthHandler,
		AuthHandler:       authHandler,
		BookingHandler:    bookingHandler,
		TimeEntryHandler:  timeEntryHandler,
		LedgerHandler:     ledgerHandler,
		AssignmentHandler: assignmentHandler,
		ReportHandler:     reportHandler,
		WebhookHandler:    webhookHandler,
		JWTManager:        jwtManager,
		IdempotencyStore:  idempotencyStore,
		RateLimiter:       rateLimiter,
		Logging:           middleware.NewLoggingMiddleware(zlog),
	})

	// Start the outbox publisher worker
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisPublisher(redisClient),
		Logger:     slogger.Logger,
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Export pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				appMetrics.DBConnections.Set(float64(pool.Stat().TotalConns()))
			}
		}
	}()

	// Evict idle rate limiters
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.Reset()
			}
		}
	}()

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

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// resolveMigrationsPath returns the migrations directory, or empty to skip
// running migrations at startup.
func resolveMigrationsPath() string {
	if path, ok := os.LookupEnv("MIGRATIONS_PATH"); ok {
		return path
	}

	return "migrations"
}
