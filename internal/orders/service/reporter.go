package service

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	catalogsvc "mealbenefits_backend/internal/catalog/service"
	clientrepo "mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

// Reporter accumulates per-client and per-vendor outcomes across one run and
// produces the final reconciliation report. It is not safe for concurrent
// use; the pipeline processes clients strictly sequentially.
type Reporter struct {
	snap *catalogsvc.Snapshot

	rowOrder []uuid.UUID
	rows     map[uuid.UUID]*domain.ClientReportRow
	vendors  map[uuid.UUID]*domain.VendorBreakdownItem

	clientVendors map[uuid.UUID]map[string]struct{}
	clientTypes   map[uuid.UUID]map[string]struct{}

	diagnostics []domain.Diagnostic
	failures    []domain.UnexpectedFailure
	breakdown   map[string]int
	total       int
}

// NewReporter creates an empty report accumulator. The snapshot supplies
// vendor display names.
func NewReporter(snap *catalogsvc.Snapshot) *Reporter {
	return &Reporter{
		snap:          snap,
		rows:          make(map[uuid.UUID]*domain.ClientReportRow),
		vendors:       make(map[uuid.UUID]*domain.VendorBreakdownItem),
		clientVendors: make(map[uuid.UUID]map[string]struct{}),
		clientTypes:   make(map[uuid.UUID]map[string]struct{}),
		diagnostics:   make([]domain.Diagnostic, 0),
		failures:      make([]domain.UnexpectedFailure, 0),
		breakdown: map[string]int{
			string(upcoming.ServiceFood):   0,
			string(upcoming.ServiceMeal):   0,
			string(upcoming.ServiceBoxes):  0,
			string(upcoming.ServiceCustom): 0,
		},
	}
}

func (r *Reporter) row(client clientrepo.Client) *domain.ClientReportRow {
	if existing, ok := r.rows[client.ID]; ok {
		return existing
	}
	row := &domain.ClientReportRow{
		ClientID:   client.ID,
		ClientName: client.DisplayName,
		Vendors:    []string{},
		Types:      []string{},
	}
	r.rows[client.ID] = row
	r.rowOrder = append(r.rowOrder, client.ID)
	return row
}

// StartClient registers a client so it appears in the report even when every
// stage rejects it.
func (r *Reporter) StartClient(client clientrepo.Client) {
	r.row(client)
}

// RecordClientReason sets the client's row reason if none is set yet. Used
// for eligibility and blocking failures, where the first failure wins.
func (r *Reporter) RecordClientReason(client clientrepo.Client, reason string) {
	row := r.row(client)
	if row.Reason == "" {
		row.Reason = reason
	}
}

// RecordDrop records an intent an expander rejected.
func (r *Reporter) RecordDrop(client clientrepo.Client, orderType upcoming.ServiceType, drop domain.Drop) {
	date := ""
	if !drop.Date.IsZero() {
		date = drop.Date.Format("2006-01-02")
	}
	r.diagnostics = append(r.diagnostics, domain.Diagnostic{
		ClientID:   client.ID,
		ClientName: client.DisplayName,
		VendorID:   drop.VendorID,
		VendorName: r.snap.VendorName(drop.VendorID),
		Date:       date,
		OrderType:  string(orderType),
		Outcome:    domain.OutcomeSkipped,
		Reason:     drop.Reason,
	})
}

// RecordCreated records a persisted order.
func (r *Reporter) RecordCreated(client clientrepo.Client, intent domain.Intent, orderID *uuid.UUID) {
	r.total++
	r.breakdown[string(intent.ServiceType)]++

	row := r.row(client)
	row.OrdersCreated++
	r.addType(client.ID, string(intent.ServiceType))

	date := intent.DeliveryDate.Format("2006-01-02")
	for _, vendorID := range intent.VendorIDs() {
		vendorName := r.snap.VendorName(vendorID)
		r.addVendor(client.ID, vendorName)

		item, ok := r.vendors[vendorID]
		if !ok {
			item = &domain.VendorBreakdownItem{
				VendorID:   vendorID,
				VendorName: vendorName,
				ByDay:      make(map[string]int),
			}
			r.vendors[vendorID] = item
		}
		item.ByDay[date]++
		item.Total++

		r.diagnostics = append(r.diagnostics, domain.Diagnostic{
			ClientID:   client.ID,
			ClientName: client.DisplayName,
			VendorID:   vendorID,
			VendorName: vendorName,
			Date:       date,
			OrderType:  string(intent.ServiceType),
			Outcome:    domain.OutcomeCreated,
			OrderID:    orderID,
		})
	}
}

// RecordSkipped records an intent the deduplication check rejected.
func (r *Reporter) RecordSkipped(client clientrepo.Client, intent domain.Intent, reason string) {
	date := intent.DeliveryDate.Format("2006-01-02")
	for _, vendorID := range intent.VendorIDs() {
		r.diagnostics = append(r.diagnostics, domain.Diagnostic{
			ClientID:   client.ID,
			ClientName: client.DisplayName,
			VendorID:   vendorID,
			VendorName: r.snap.VendorName(vendorID),
			Date:       date,
			OrderType:  string(intent.ServiceType),
			Outcome:    domain.OutcomeSkipped,
			Reason:     reason,
		})
	}
}

// RecordFailed records a persistence failure: a diagnostic entry plus a line
// in the report's unexpected-failures list.
func (r *Reporter) RecordFailed(client clientrepo.Client, intent domain.Intent, reason string) {
	date := intent.DeliveryDate.Format("2006-01-02")
	r.failures = append(r.failures, domain.UnexpectedFailure{
		ClientName: client.DisplayName,
		OrderType:  string(intent.ServiceType),
		Date:       date,
		Reason:     reason,
	})
	for _, vendorID := range intent.VendorIDs() {
		r.diagnostics = append(r.diagnostics, domain.Diagnostic{
			ClientID:   client.ID,
			ClientName: client.DisplayName,
			VendorID:   vendorID,
			VendorName: r.snap.VendorName(vendorID),
			Date:       date,
			OrderType:  string(intent.ServiceType),
			Outcome:    domain.OutcomeFailed,
			Reason:     reason,
		})
	}
}

// FinishClient applies the fallback reason for clients that end the run with
// no orders and no recorded eligibility or blocking failure.
func (r *Reporter) FinishClient(client clientrepo.Client, serviceType upcoming.ServiceType) {
	row := r.row(client)
	if row.OrdersCreated > 0 || row.Reason != "" {
		return
	}
	if serviceType.Valid() {
		row.Reason = fmt.Sprintf("No upcoming %s orders", serviceType)
		return
	}
	row.Reason = "No upcoming orders"
}

func (r *Reporter) addVendor(clientID uuid.UUID, vendorName string) {
	if vendorName == "" {
		return
	}
	set, ok := r.clientVendors[clientID]
	if !ok {
		set = make(map[string]struct{})
		r.clientVendors[clientID] = set
	}
	set[vendorName] = struct{}{}
}

func (r *Reporter) addType(clientID uuid.UUID, orderType string) {
	set, ok := r.clientTypes[clientID]
	if !ok {
		set = make(map[string]struct{})
		r.clientTypes[clientID] = set
	}
	set[orderType] = struct{}{}
}

// Report assembles the final run report. Rows keep client processing order;
// vendor breakdowns are sorted by vendor name for stable output.
func (r *Reporter) Report() domain.RunReport {
	rows := make([]domain.ClientReportRow, 0, len(r.rowOrder))
	for _, clientID := range r.rowOrder {
		row := *r.rows[clientID]
		row.Vendors = sortedSet(r.clientVendors[clientID])
		row.Types = sortedSet(r.clientTypes[clientID])
		rows = append(rows, row)
	}

	vendorItems := make([]domain.VendorBreakdownItem, 0, len(r.vendors))
	for _, item := range r.vendors {
		vendorItems = append(vendorItems, *item)
	}
	sort.Slice(vendorItems, func(i, j int) bool {
		if vendorItems[i].VendorName != vendorItems[j].VendorName {
			return vendorItems[i].VendorName < vendorItems[j].VendorName
		}
		return vendorItems[i].VendorID.String() < vendorItems[j].VendorID.String()
	})

	return domain.RunReport{
		TotalCreated:       r.total,
		Breakdown:          r.breakdown,
		UnexpectedFailures: r.failures,
		Rows:               rows,
		VendorBreakdown:    vendorItems,
		Diagnostics:        r.diagnostics,
	}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
