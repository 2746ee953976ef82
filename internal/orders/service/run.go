// Package service implements the order materialization pipeline: eligibility
// gate, data-quality blocking, calendar resolution, service-type expansion,
// deduplication, materialization, and reconciliation reporting.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/calendar"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	clientrepo "mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
	"mealbenefits_backend/internal/orders/repository"
	"mealbenefits_backend/platform/config"
	"mealbenefits_backend/platform/logger"
)

// ClientSource supplies client directory pages for a run. The ordering of
// List must be stable so batched runs partition the population without
// overlap.
type ClientSource interface {
	List(ctx context.Context, limit, offset int) ([]clientrepo.Client, error)
	Count(ctx context.Context) (int, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]clientrepo.Client, error)
}

// SnapshotLoader supplies the catalog reference snapshot for a run.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*catalogsvc.Snapshot, error)
}

// Runner orchestrates materialization runs over the client population.
type Runner struct {
	clients ClientSource
	catalog SnapshotLoader
	ledger  repository.Ledger
	cfg     config.RunConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewRunner creates a run orchestrator.
func NewRunner(clients ClientSource, catalog SnapshotLoader, ledger repository.Ledger, cfg config.RunConfig, log *logger.Logger) *Runner {
	return &Runner{
		clients: clients,
		catalog: catalog,
		ledger:  ledger,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// WithClock overrides the runner's clock. Tests use this to pin the target
// week.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// RunParams selects the operating mode of one invocation.
type RunParams struct {
	// Batched selects batched mode; BatchIndex and BatchSize bound the page
	// of clients processed.
	Batched    bool
	BatchIndex int
	BatchSize  int

	// CreationRunID groups the orders of one logical run across its batches.
	// Zero means start a new run.
	CreationRunID uuid.UUID

	// ClientIDs narrows the run to an explicit client list, bypassing
	// batching. Used for targeted re-runs.
	ClientIDs []uuid.UUID

	// WeekStart pins the target week window's Sunday. Nil computes the
	// window from today and the configured offset. Later batches of one run
	// carry the first batch's window so the run stays on one week.
	WeekStart *time.Time
}

// BatchInfo describes the batch window a batched invocation processed.
type BatchInfo struct {
	BatchIndex   int
	BatchSize    int
	TotalClients int
	HasMore      bool
}

// RunResult is the outcome of one invocation.
type RunResult struct {
	Report        domain.RunReport
	CreationRunID uuid.UUID
	Window        calendar.Window
	Batch         *BatchInfo
}

// Run executes one materialization invocation. Clients are processed
// strictly sequentially; every failure below run level becomes a report
// entry rather than an error. Only infrastructure loss before the client
// loop (reference data, client directory, order-number seed) returns an
// error.
func (r *Runner) Run(ctx context.Context, params RunParams) (RunResult, error) {
	today := r.now()

	window := calendar.WindowFor(today, r.cfg.GetTargetWeekOffset())
	if params.WeekStart != nil {
		start := calendar.DateOnly(*params.WeekStart)
		window = calendar.Window{Start: start, End: start.AddDate(0, 0, 6)}
	}

	runID := params.CreationRunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	log := r.log.WithRunID(runID.String())

	result := RunResult{CreationRunID: runID, Window: window}

	snap, err := r.catalog.LoadSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("load reference data: %w", err)
	}

	maxNumber, err := r.ledger.MaxOrderNumber(ctx)
	if err != nil {
		return result, fmt.Errorf("seed order number counter: %w", err)
	}
	counter := NewOrderNumberCounter(maxNumber)

	clients, batch, err := r.loadClients(ctx, params)
	if err != nil {
		return result, fmt.Errorf("load clients: %w", err)
	}
	result.Batch = batch

	log.RunEvent("run_started", runID.String(), params.BatchIndex, 0)

	reporter := NewReporter(snap)
	materializer := NewMaterializer(r.ledger, log)

	for _, client := range clients {
		r.processClient(ctx, client, today, window, snap, counter, runID, materializer, reporter, log)
	}

	result.Report = reporter.Report()
	log.RunEvent("run_finished", runID.String(), params.BatchIndex, result.Report.TotalCreated)
	return result, nil
}

func (r *Runner) loadClients(ctx context.Context, params RunParams) ([]clientrepo.Client, *BatchInfo, error) {
	if len(params.ClientIDs) > 0 {
		clients, err := r.clients.GetByIDs(ctx, params.ClientIDs)
		return clients, nil, err
	}

	total, err := r.clients.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	if !params.Batched {
		if total == 0 {
			return nil, nil, nil
		}
		clients, err := r.clients.List(ctx, total, 0)
		return clients, nil, err
	}

	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = r.cfg.GetDefaultBatchSize()
	}
	offset := params.BatchIndex * batchSize

	var clients []clientrepo.Client
	if offset < total {
		clients, err = r.clients.List(ctx, batchSize, offset)
		if err != nil {
			return nil, nil, err
		}
	}

	return clients, &BatchInfo{
		BatchIndex:   params.BatchIndex,
		BatchSize:    batchSize,
		TotalClients: total,
		HasMore:      offset+batchSize < total,
	}, nil
}

func (r *Runner) processClient(
	ctx context.Context,
	client clientrepo.Client,
	today time.Time,
	window calendar.Window,
	snap *catalogsvc.Snapshot,
	counter *OrderNumberCounter,
	runID uuid.UUID,
	materializer *Materializer,
	reporter *Reporter,
	log *logger.Logger,
) {
	reporter.StartClient(client)

	if elig := CheckEligibility(client, today); !elig.OK {
		reporter.RecordClientReason(client, elig.Reason)
		log.OrderOutcome(string(domain.OutcomeSkipped), client.ID.String(), client.ServiceType, "", elig.Reason)
		return
	}

	cfg, err := upcoming.Decode(client.UpcomingConfig)
	if err != nil {
		reporter.RecordClientReason(client, "Invalid upcoming order configuration")
		log.OrderOutcome(string(domain.OutcomeSkipped), client.ID.String(), client.ServiceType, "", err.Error())
		return
	}
	if cfg == nil {
		reporter.FinishClient(client, upcoming.ServiceType(client.ServiceType))
		return
	}

	if blocked, reason := CheckBlockingIssues(cfg, snap); blocked {
		reporter.RecordClientReason(client, reason)
		log.OrderOutcome(string(domain.OutcomeSkipped), client.ID.String(), string(cfg.ServiceType), "", reason)
		return
	}

	var intents []domain.Intent
	var drops []domain.Drop
	switch cfg.ServiceType {
	case upcoming.ServiceFood:
		intents, drops = ExpandFood(cfg, window, snap)
	case upcoming.ServiceMeal:
		intents = ExpandMeal(cfg, window, snap)
	case upcoming.ServiceBoxes:
		intents, drops = ExpandBoxes(cfg, window, snap)
	case upcoming.ServiceCustom:
		intents, drops = ExpandCustom(cfg, window)
	}

	for _, drop := range drops {
		reporter.RecordDrop(client, cfg.ServiceType, drop)
	}

	for _, intent := range intents {
		outcome := materializer.Materialize(ctx, client, intent, counter, runID, window)
		switch outcome.Outcome {
		case domain.OutcomeCreated:
			reporter.RecordCreated(client, intent, outcome.OrderID)
		case domain.OutcomeSkipped:
			reporter.RecordSkipped(client, intent, outcome.Reason)
		case domain.OutcomeFailed:
			reporter.RecordFailed(client, intent, outcome.Reason)
		}
	}

	reporter.FinishClient(client, cfg.ServiceType)
}
