package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mealbenefits_backend/internal/catalog"
	"mealbenefits_backend/internal/clients"
	"mealbenefits_backend/internal/email"
	"mealbenefits_backend/internal/events"
	"mealbenefits_backend/internal/exports"
	"mealbenefits_backend/internal/orders"
	"mealbenefits_backend/internal/scheduler"
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

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side materialization wiring (no HTTP handlers required).
	clientsModule := clients.NewModule(pool, val, log)
	catalogModule := catalog.NewModule(pool, val, log)
	ordersModule := orders.NewModule(pool, clientsModule.Repository(), catalogModule.Service(), eventBus, cfg, val, log)

	// Batch reports deliver from the worker too, so report wiring mirrors the API.
	var store exports.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioStore, err := exports.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize report store", "error", err)
			panic("failed to initialize report store: " + err.Error())
		}
		store = minioStore
	}
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	}
	reportListener := exports.NewListener(store, cfg.GetMinioBucketReports(), sender, cfg.GetReportRecipient(), log)
	reportListener.RegisterHandlers(eventBus)

	schedClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = schedClient.Close() }()

	worker, err := scheduler.NewWorker(cfg, ordersModule.Service().Runner(), schedClient, eventBus, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	if getBoolEnv("RUN_ENQUEUE_ON_START", false) {
		payload := scheduler.MaterializeBatchPayload{
			BatchIndex: 0,
			BatchSize:  cfg.GetDefaultBatchSize(),
		}
		if err := schedClient.EnqueueMaterializeBatch(ctx, payload); err != nil {
			log.Error("failed to enqueue initial batch", "error", err)
			panic("failed to enqueue initial batch: " + err.Error())
		}
		log.Info("initial materialization batch enqueued", "batchSize", payload.BatchSize)
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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

func getBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return strings.EqualFold(raw, "true")
}
