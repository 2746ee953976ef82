package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealbenefits_backend/internal/catalog"
	"mealbenefits_backend/internal/clients"
	"mealbenefits_backend/internal/email"
	"mealbenefits_backend/internal/events"
	"mealbenefits_backend/internal/exports"
	apphttp "mealbenefits_backend/internal/http"
	"mealbenefits_backend/internal/http/router"
	"mealbenefits_backend/internal/orders"
	"mealbenefits_backend/platform/config"
	"mealbenefits_backend/platform/db"
	"mealbenefits_backend/platform/logger"
	"mealbenefits_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Report object store (MinIO), optional
	var store exports.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioStore, err := exports.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize report store", "error", err)
			panic("failed to initialize report store: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
			return minioStore.EnsureBucketExists(ctx, cfg.GetMinioBucketReports())
		}); err != nil {
			log.Error("failed to ensure reports bucket exists", "error", err, "bucket", cfg.GetMinioBucketReports())
			panic("failed to ensure reports bucket exists: " + err.Error())
		}
		store = minioStore
		log.Info("report store initialized", "bucket", cfg.GetMinioBucketReports())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; report exports disabled")
	}

	// Run report email sender, optional
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP_HOST not configured; run report emails disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	clientsModule := clients.NewModule(pool, val, log)
	catalogModule := catalog.NewModule(pool, val, log)
	ordersModule := orders.NewModule(pool, clientsModule.Repository(), catalogModule.Service(), eventBus, cfg, val, log)

	// Report delivery subscribes to run-completed events (not HTTP-facing)
	reportListener := exports.NewListener(store, cfg.GetMinioBucketReports(), sender, cfg.GetReportRecipient(), log)
	reportListener.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			clientsModule,
			catalogModule,
			ordersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
