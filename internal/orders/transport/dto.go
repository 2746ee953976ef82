// Package transport defines request and response DTOs for the orders module.
package transport

import (
	"github.com/google/uuid"

	"mealbenefits_backend/internal/orders/domain"
)

// MaterializeRequest triggers a materialization run.
type MaterializeRequest struct {
	// Mode is "full" (default) or "batch".
	Mode string `json:"mode" validate:"omitempty,oneof=full batch"`

	BatchIndex *int `json:"batchIndex" validate:"omitempty,gte=0"`
	BatchSize  *int `json:"batchSize" validate:"omitempty,gte=1,lte=5000"`

	// CreationRunID carries the shared run id across the batches of one
	// logical run. Omitted on the first batch.
	CreationRunID *uuid.UUID `json:"creationRunId"`

	// ClientIDs narrows the run to specific clients, bypassing batching.
	ClientIDs []uuid.UUID `json:"clientIds" validate:"omitempty,max=500"`

	// WeekStart pins the target week's Sunday (YYYY-MM-DD). Later batches of
	// one run pass the first batch's value.
	WeekStart string `json:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// BatchResult is the batched-mode portion of the materialization response.
type BatchResult struct {
	BatchIndex      int                          `json:"batchIndex"`
	BatchSize       int                          `json:"batchSize"`
	TotalClients    int                          `json:"totalClients"`
	CreationRunID   uuid.UUID                    `json:"creationRunId"`
	HasMore         bool                         `json:"hasMore"`
	ExcelRows       []domain.ClientReportRow     `json:"excelRows"`
	VendorBreakdown []domain.VendorBreakdownItem `json:"vendorBreakdown"`
	Diagnostics     []domain.Diagnostic          `json:"diagnostics"`
}

// MaterializeResponse is the outcome of a materialization run.
type MaterializeResponse struct {
	TotalCreated       int                        `json:"totalCreated"`
	Breakdown          map[string]int             `json:"breakdown"`
	UnexpectedFailures []domain.UnexpectedFailure `json:"unexpectedFailures"`
	CreationRunID      uuid.UUID                  `json:"creationRunId"`
	WeekStart          string                     `json:"weekStart"`
	WeekEnd            string                     `json:"weekEnd"`
	Batch              *BatchResult               `json:"batch,omitempty"`
}

// OrderResponse is the API representation of a materialized order.
type OrderResponse struct {
	ID              uuid.UUID `json:"id"`
	ClientID        uuid.UUID `json:"clientId"`
	ServiceType     string    `json:"serviceType"`
	Status          string    `json:"status"`
	DeliveryDate    string    `json:"deliveryDate"`
	TotalValueCents int64     `json:"totalValueCents"`
	TotalQuantity   int       `json:"totalQuantity"`
	OrderNumber     int64     `json:"orderNumber"`
	CaseID          string    `json:"caseId,omitempty"`
	CreationRunID   uuid.UUID `json:"creationRunId"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
}

// ListOrdersRequest filters ledger reads.
type ListOrdersRequest struct {
	ClientID *uuid.UUID `form:"clientId"`
	From     string     `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string     `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit    int        `form:"limit" validate:"omitempty,gte=1,lte=500"`
	Offset   int        `form:"offset" validate:"omitempty,gte=0"`
}

// OrderListResponse is a page of ledger orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// RunRecapResponse recaps the orders one creation run produced.
type RunRecapResponse struct {
	CreationRunID uuid.UUID       `json:"creationRunId"`
	TotalOrders   int             `json:"totalOrders"`
	Orders        []OrderResponse `json:"orders"`
}
