// Package domain holds the value types the materialization pipeline passes
// between its stages: order intents produced by the expanders, per-intent
// outcomes, and the reconciliation report structures.
package domain

import (
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/clients/upcoming"
)

// Outcome classifies what happened to a single order intent.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// LineIntent is one prospective order line: either a catalog item reference
// or a free-form custom name with its own price.
type LineIntent struct {
	ItemID          *uuid.UUID
	CustomName      string
	Quantity        int
	UnitValueCents  int64
	TotalValueCents int64
	Note            string
}

// SelectionIntent groups the lines one vendor contributes to an intent.
type SelectionIntent struct {
	VendorID uuid.UUID
	Lines    []LineIntent
}

// Intent is one prospective order: a dated, valued set of vendor selections
// for a single client. Food, Meal, and Custom intents carry exactly one
// selection; a Boxes intent carries one per distinct vendor.
type Intent struct {
	ServiceType     upcoming.ServiceType
	DeliveryDate    time.Time
	Selections      []SelectionIntent
	TotalValueCents int64
	TotalQuantity   int
	Notes           string
	CaseID          string
}

// SingleVendor returns the intent's vendor when it carries exactly one
// selection.
func (i Intent) SingleVendor() (uuid.UUID, bool) {
	if len(i.Selections) == 1 {
		return i.Selections[0].VendorID, true
	}
	return uuid.Nil, false
}

// VendorIDs returns the distinct vendor ids across the intent's selections.
func (i Intent) VendorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(i.Selections))
	ids := make([]uuid.UUID, 0, len(i.Selections))
	for _, sel := range i.Selections {
		if _, ok := seen[sel.VendorID]; ok {
			continue
		}
		seen[sel.VendorID] = struct{}{}
		ids = append(ids, sel.VendorID)
	}
	return ids
}

// Drop records an intent that an expander rejected, for diagnostics.
type Drop struct {
	VendorID uuid.UUID
	Date     time.Time
	Reason   string
}

// Diagnostic is one per-intent outcome entry in the run report.
type Diagnostic struct {
	ClientID   uuid.UUID  `json:"clientId"`
	ClientName string     `json:"clientName"`
	VendorID   uuid.UUID  `json:"vendorId"`
	VendorName string     `json:"vendorName"`
	Date       string     `json:"date"`
	OrderType  string     `json:"orderType"`
	Outcome    Outcome    `json:"outcome"`
	OrderID    *uuid.UUID `json:"orderId,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// ClientReportRow is one client's line in the reconciliation report.
type ClientReportRow struct {
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	OrdersCreated int       `json:"ordersCreated"`
	Vendors       []string  `json:"vendors"`
	Types         []string  `json:"types"`
	Reason        string    `json:"reason"`
}

// VendorBreakdownItem summarizes one vendor's deliveries across the run.
type VendorBreakdownItem struct {
	VendorID   uuid.UUID      `json:"vendorId"`
	VendorName string         `json:"vendorName"`
	ByDay      map[string]int `json:"byDay"`
	Total      int            `json:"total"`
}

// UnexpectedFailure is a persistence failure surfaced at the top of the
// report.
type UnexpectedFailure struct {
	ClientName string `json:"clientName"`
	OrderType  string `json:"orderType"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

// RunReport is the aggregated outcome of one materialization invocation.
type RunReport struct {
	TotalCreated       int
	Breakdown          map[string]int
	UnexpectedFailures []UnexpectedFailure
	Rows               []ClientReportRow
	VendorBreakdown    []VendorBreakdownItem
	Diagnostics        []Diagnostic
}
