package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is a materialized order header.
type Order struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	ServiceType     string
	Status          string
	DeliveryDate    time.Time
	TotalValueCents int64
	TotalQuantity   int
	OrderNumber     int64
	CaseID          string
	CreationRunID   uuid.UUID
	Notes           string
	CreatedAt       time.Time
}

// InsertLineParams is one order line within a vendor selection.
type InsertLineParams struct {
	ItemID          *uuid.UUID
	CustomName      string
	Quantity        int
	UnitValueCents  int64
	TotalValueCents int64
	Note            string
}

// InsertSelectionParams is one vendor selection with its lines.
type InsertSelectionParams struct {
	VendorID uuid.UUID
	Lines    []InsertLineParams
}

// InsertOrderParams describes a full order tree to persist.
type InsertOrderParams struct {
	ClientID        uuid.UUID
	ServiceType     string
	DeliveryDate    time.Time
	TotalValueCents int64
	TotalQuantity   int
	OrderNumber     int64
	CaseID          string
	CreationRunID   uuid.UUID
	Notes           string
	Selections      []InsertSelectionParams
}

// ListOrdersParams filters ledger reads.
type ListOrdersParams struct {
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Ledger defines the order ledger storage operations the pipeline needs.
type Ledger interface {
	// MaxOrderNumber returns the highest persisted order number, or zero when
	// the ledger is empty. Seeds the run's order-number counter.
	MaxOrderNumber(ctx context.Context) (int64, error)

	// OrderExists reports whether an order already exists for the client on
	// the given date and service type. When vendorID is non-nil the match is
	// narrowed to orders that include that vendor.
	OrderExists(ctx context.Context, clientID uuid.UUID, date time.Time, serviceType string, vendorID *uuid.UUID) (bool, error)

	// OrderExistsInWindow reports whether any order of the given service type
	// exists for the client with a delivery date inside [start, end].
	OrderExistsInWindow(ctx context.Context, clientID uuid.UUID, serviceType string, start, end time.Time) (bool, error)

	// InsertOrderTree persists an order with its vendor selections and line
	// items in one transaction and returns the new order id.
	InsertOrderTree(ctx context.Context, params InsertOrderParams) (uuid.UUID, error)

	ListByRun(ctx context.Context, runID uuid.UUID) ([]Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
}
