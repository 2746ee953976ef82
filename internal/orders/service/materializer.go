package service

import (
	"context"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/calendar"
	clientrepo "mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
	"mealbenefits_backend/internal/orders/repository"
	"mealbenefits_backend/platform/logger"
)

const (
	reasonDuplicateOrder = "Order already exists for this client/date/vendor"
	reasonDuplicateBoxes = "Boxes order already exists for this week"
)

// OrderNumberCounter hands out sequential order numbers, seeded from the
// ledger's current maximum. It is threaded through the pipeline explicitly:
// batches of one run must execute sequentially, never in parallel, for the
// numbers to stay collision-free.
type OrderNumberCounter struct {
	next int64
}

// NewOrderNumberCounter seeds a counter at the given maximum; the first Next
// call returns max+1.
func NewOrderNumberCounter(max int64) *OrderNumberCounter {
	return &OrderNumberCounter{next: max}
}

// Next returns the next order number. Called once per attempted creation,
// including attempts that fail to persist.
func (c *OrderNumberCounter) Next() int64 {
	c.next++
	return c.next
}

// Materializer checks intents against the ledger and persists the survivors.
type Materializer struct {
	ledger repository.Ledger
	log    *logger.Logger
}

// NewMaterializer creates a materializer over the given ledger.
func NewMaterializer(ledger repository.Ledger, log *logger.Logger) *Materializer {
	return &Materializer{ledger: ledger, log: log}
}

// MaterializeOutcome is the result of one materialization attempt.
type MaterializeOutcome struct {
	Outcome domain.Outcome
	OrderID *uuid.UUID
	Reason  string
}

// Materialize deduplicates one intent against the ledger and, when no
// matching order exists, persists the full order tree. Food, Meal, and
// Custom intents dedup on (client, date, service type, vendor); Boxes dedup
// at the coarser (client, service type, week window) granularity. A
// persistence failure fails this intent only. Duplicates never consume an
// order number; failed insert attempts do.
func (m *Materializer) Materialize(ctx context.Context, client clientrepo.Client, intent domain.Intent, counter *OrderNumberCounter, runID uuid.UUID, window calendar.Window) MaterializeOutcome {
	dateStr := intent.DeliveryDate.Format("2006-01-02")

	if intent.ServiceType == upcoming.ServiceBoxes {
		exists, err := m.ledger.OrderExistsInWindow(ctx, client.ID, string(intent.ServiceType), window.Start, window.End)
		if err != nil {
			m.log.DatabaseError("check boxes order exists", err)
			return MaterializeOutcome{Outcome: domain.OutcomeFailed, Reason: err.Error()}
		}
		if exists {
			return MaterializeOutcome{Outcome: domain.OutcomeSkipped, Reason: reasonDuplicateBoxes}
		}
	} else {
		var vendorID *uuid.UUID
		if id, ok := intent.SingleVendor(); ok {
			vendorID = &id
		}
		exists, err := m.ledger.OrderExists(ctx, client.ID, intent.DeliveryDate, string(intent.ServiceType), vendorID)
		if err != nil {
			m.log.DatabaseError("check order exists", err)
			return MaterializeOutcome{Outcome: domain.OutcomeFailed, Reason: err.Error()}
		}
		if exists {
			return MaterializeOutcome{Outcome: domain.OutcomeSkipped, Reason: reasonDuplicateOrder}
		}
	}

	params := repository.InsertOrderParams{
		ClientID:        client.ID,
		ServiceType:     string(intent.ServiceType),
		DeliveryDate:    intent.DeliveryDate,
		TotalValueCents: intent.TotalValueCents,
		TotalQuantity:   intent.TotalQuantity,
		OrderNumber:     counter.Next(),
		CaseID:          intent.CaseID,
		CreationRunID:   runID,
		Notes:           intent.Notes,
		Selections:      make([]repository.InsertSelectionParams, 0, len(intent.Selections)),
	}
	for _, sel := range intent.Selections {
		selParams := repository.InsertSelectionParams{
			VendorID: sel.VendorID,
			Lines:    make([]repository.InsertLineParams, 0, len(sel.Lines)),
		}
		for _, line := range sel.Lines {
			selParams.Lines = append(selParams.Lines, repository.InsertLineParams{
				ItemID:          line.ItemID,
				CustomName:      line.CustomName,
				Quantity:        line.Quantity,
				UnitValueCents:  line.UnitValueCents,
				TotalValueCents: line.TotalValueCents,
				Note:            line.Note,
			})
		}
		params.Selections = append(params.Selections, selParams)
	}

	orderID, err := m.ledger.InsertOrderTree(ctx, params)
	if err != nil {
		m.log.DatabaseError("insert order tree", err)
		m.log.OrderOutcome(string(domain.OutcomeFailed), client.ID.String(), string(intent.ServiceType), dateStr, err.Error())
		return MaterializeOutcome{Outcome: domain.OutcomeFailed, Reason: err.Error()}
	}

	m.log.OrderOutcome(string(domain.OutcomeCreated), client.ID.String(), string(intent.ServiceType), dateStr, "")
	return MaterializeOutcome{Outcome: domain.OutcomeCreated, OrderID: &orderID}
}
