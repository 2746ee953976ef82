package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	appevents "mealbenefits_backend/internal/events"
	"mealbenefits_backend/internal/orders/repository"
	"mealbenefits_backend/internal/orders/transport"
	"mealbenefits_backend/platform/apperr"
	"mealbenefits_backend/platform/events"
	"mealbenefits_backend/platform/logger"
)

// Service is the transport-facing facade over the run orchestrator and the
// order ledger.
type Service struct {
	runner *Runner
	ledger repository.Ledger
	bus    events.Bus
	log    *logger.Logger
}

// NewService creates the orders service.
func NewService(runner *Runner, ledger repository.Ledger, bus events.Bus, log *logger.Logger) *Service {
	return &Service{runner: runner, ledger: ledger, bus: bus, log: log}
}

// Runner exposes the orchestrator for the scheduler worker.
func (s *Service) Runner() *Runner {
	return s.runner
}

// Materialize executes a materialization run described by the request and
// maps the result to the response shape. A RunCompleted event fires after
// every invocation; report delivery (export, email) hangs off that event.
func (s *Service) Materialize(ctx context.Context, req transport.MaterializeRequest) (transport.MaterializeResponse, error) {
	params := RunParams{ClientIDs: req.ClientIDs}

	if req.Mode == "batch" {
		params.Batched = true
		if req.BatchIndex != nil {
			params.BatchIndex = *req.BatchIndex
		}
		if req.BatchSize != nil {
			params.BatchSize = *req.BatchSize
		}
	}
	if req.CreationRunID != nil {
		params.CreationRunID = *req.CreationRunID
	}
	if req.WeekStart != "" {
		start, err := time.Parse("2006-01-02", req.WeekStart)
		if err != nil {
			return transport.MaterializeResponse{}, apperr.Validation("invalid weekStart date")
		}
		params.WeekStart = &start
	}

	result, err := s.runner.Run(ctx, params)
	if err != nil {
		return transport.MaterializeResponse{}, apperr.Wrap(apperr.KindInternal, "materialization run failed", err)
	}

	final := result.Batch == nil || !result.Batch.HasMore
	s.bus.Publish(ctx, appevents.RunCompleted{
		BaseEvent:  events.NewBaseEvent(),
		RunID:      result.CreationRunID,
		BatchIndex: params.BatchIndex,
		Final:      final,
		WeekStart:  result.Window.Start.Format("2006-01-02"),
		WeekEnd:    result.Window.End.Format("2006-01-02"),
		Report:     result.Report,
	})

	return toMaterializeResponse(result), nil
}

// GetRun recaps the orders one creation run produced across all its batches.
func (s *Service) GetRun(ctx context.Context, runID uuid.UUID) (transport.RunRecapResponse, error) {
	orders, err := s.ledger.ListByRun(ctx, runID)
	if err != nil {
		return transport.RunRecapResponse{}, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return transport.RunRecapResponse{
		CreationRunID: runID,
		TotalOrders:   len(out),
		Orders:        out,
	}, nil
}

// List reads the order ledger with filters.
func (s *Service) List(ctx context.Context, req transport.ListOrdersRequest) (transport.OrderListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	params := repository.ListOrdersParams{
		ClientID: req.ClientID,
		Limit:    limit,
		Offset:   req.Offset,
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return transport.OrderListResponse{}, apperr.Validation("invalid from date")
		}
		params.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return transport.OrderListResponse{}, apperr.Validation("invalid to date")
		}
		params.To = &to
	}

	orders, total, err := s.ledger.ListOrders(ctx, params)
	if err != nil {
		return transport.OrderListResponse{}, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return transport.OrderListResponse{
		Orders: out,
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
	}, nil
}

func toMaterializeResponse(result RunResult) transport.MaterializeResponse {
	resp := transport.MaterializeResponse{
		TotalCreated:       result.Report.TotalCreated,
		Breakdown:          result.Report.Breakdown,
		UnexpectedFailures: result.Report.UnexpectedFailures,
		CreationRunID:      result.CreationRunID,
		WeekStart:          result.Window.Start.Format("2006-01-02"),
		WeekEnd:            result.Window.End.Format("2006-01-02"),
	}

	if result.Batch != nil {
		resp.Batch = &transport.BatchResult{
			BatchIndex:      result.Batch.BatchIndex,
			BatchSize:       result.Batch.BatchSize,
			TotalClients:    result.Batch.TotalClients,
			CreationRunID:   result.CreationRunID,
			HasMore:         result.Batch.HasMore,
			ExcelRows:       result.Report.Rows,
			VendorBreakdown: result.Report.VendorBreakdown,
			Diagnostics:     result.Report.Diagnostics,
		}
	}

	return resp
}

func toOrderResponse(o repository.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:              o.ID,
		ClientID:        o.ClientID,
		ServiceType:     o.ServiceType,
		Status:          o.Status,
		DeliveryDate:    o.DeliveryDate.Format("2006-01-02"),
		TotalValueCents: o.TotalValueCents,
		TotalQuantity:   o.TotalQuantity,
		OrderNumber:     o.OrderNumber,
		CaseID:          o.CaseID,
		CreationRunID:   o.CreationRunID,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}
