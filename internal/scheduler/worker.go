// Package scheduler runs batched materialization through the asynq task
// queue. Each task processes one batch and enqueues the next, so a run of
// any size survives the per-invocation wall-clock ceiling. Batches of one
// run must never execute in parallel; the worker is configured with
// concurrency 1 on the run queue.
package scheduler

import (
	"context"
	"fmt"
	"time"

	appevents "mealbenefits_backend/internal/events"
	ordersvc "mealbenefits_backend/internal/orders/service"
	"mealbenefits_backend/platform/config"
	"mealbenefits_backend/platform/events"
	"mealbenefits_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	runner    *ordersvc.Runner
	enqueuer  RunScheduler
	bus       events.Bus
	log       *logger.Logger
	batchSize int
}

func NewWorker(cfg *config.Config, runner *ordersvc.Runner, enqueuer RunScheduler, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		runner:    runner,
		enqueuer:  enqueuer,
		bus:       bus,
		log:       log,
		batchSize: cfg.GetDefaultBatchSize(),
	}

	mux.HandleFunc(TaskMaterializeBatch, w.handleMaterializeBatch)

	return w, nil
}

func (w *Worker) handleMaterializeBatch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMaterializeBatchPayload(task)
	if err != nil {
		return err
	}

	params := ordersvc.RunParams{
		Batched:    true,
		BatchIndex: payload.BatchIndex,
		BatchSize:  payload.BatchSize,
	}
	if params.BatchSize <= 0 {
		params.BatchSize = w.batchSize
	}
	if payload.RunID != "" {
		runID, err := uuid.Parse(payload.RunID)
		if err != nil {
			return fmt.Errorf("parse run id: %w", err)
		}
		params.CreationRunID = runID
	}
	if payload.WeekStart != "" {
		start, err := time.Parse("2006-01-02", payload.WeekStart)
		if err != nil {
			return fmt.Errorf("parse week start: %w", err)
		}
		params.WeekStart = &start
	}

	result, err := w.runner.Run(ctx, params)
	if err != nil {
		return err
	}

	hasMore := result.Batch != nil && result.Batch.HasMore

	if w.bus != nil {
		w.bus.Publish(ctx, appevents.RunCompleted{
			BaseEvent:  events.NewBaseEvent(),
			RunID:      result.CreationRunID,
			BatchIndex: payload.BatchIndex,
			Final:      !hasMore,
			WeekStart:  result.Window.Start.Format("2006-01-02"),
			WeekEnd:    result.Window.End.Format("2006-01-02"),
			Report:     result.Report,
		})
	}

	if hasMore {
		next := MaterializeBatchPayload{
			RunID:      result.CreationRunID.String(),
			BatchIndex: payload.BatchIndex + 1,
			BatchSize:  params.BatchSize,
			WeekStart:  result.Window.Start.Format("2006-01-02"),
		}
		if err := w.enqueuer.EnqueueMaterializeBatch(ctx, next); err != nil {
			return fmt.Errorf("enqueue next batch: %w", err)
		}
	}

	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
