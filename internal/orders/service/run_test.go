package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/calendar"
	catalogrepo "mealbenefits_backend/internal/catalog/repository"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	clientrepo "mealbenefits_backend/internal/clients/repository"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
	"mealbenefits_backend/internal/orders/repository"
	"mealbenefits_backend/platform/config"
	"mealbenefits_backend/platform/logger"
)

// Wednesday 2026-03-11; the offset-1 target week is Sun 2026-03-15 .. Sat 2026-03-21.
var testToday = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

var testWindow = calendar.WindowFor(testToday, 1)

// fakeLedger is an in-memory order ledger.
type fakeLedger struct {
	maxNumber int64
	maxErr    error
	insertErr error
	orders    []repository.InsertOrderParams
}

func (f *fakeLedger) MaxOrderNumber(_ context.Context) (int64, error) {
	if f.maxErr != nil {
		return 0, f.maxErr
	}
	return f.maxNumber, nil
}

func (f *fakeLedger) OrderExists(_ context.Context, clientID uuid.UUID, date time.Time, serviceType string, vendorID *uuid.UUID) (bool, error) {
	for _, o := range f.orders {
		if o.ClientID != clientID || !o.DeliveryDate.Equal(date) || o.ServiceType != serviceType {
			continue
		}
		if vendorID == nil {
			return true, nil
		}
		for _, sel := range o.Selections {
			if sel.VendorID == *vendorID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeLedger) OrderExistsInWindow(_ context.Context, clientID uuid.UUID, serviceType string, start, end time.Time) (bool, error) {
	for _, o := range f.orders {
		if o.ClientID == clientID && o.ServiceType == serviceType &&
			!o.DeliveryDate.Before(start) && !o.DeliveryDate.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) InsertOrderTree(_ context.Context, params repository.InsertOrderParams) (uuid.UUID, error) {
	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}
	f.orders = append(f.orders, params)
	return uuid.New(), nil
}

func (f *fakeLedger) ListByRun(_ context.Context, _ uuid.UUID) ([]repository.Order, error) {
	return nil, nil
}

func (f *fakeLedger) ListOrders(_ context.Context, _ repository.ListOrdersParams) ([]repository.Order, int, error) {
	return nil, 0, nil
}

// fakeClients serves a fixed client slice with stable ordering.
type fakeClients struct {
	clients []clientrepo.Client
}

func (f *fakeClients) List(_ context.Context, limit, offset int) ([]clientrepo.Client, error) {
	if offset >= len(f.clients) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.clients) {
		end = len(f.clients)
	}
	return f.clients[offset:end], nil
}

func (f *fakeClients) Count(_ context.Context) (int, error) {
	return len(f.clients), nil
}

func (f *fakeClients) GetByIDs(_ context.Context, ids []uuid.UUID) ([]clientrepo.Client, error) {
	out := make([]clientrepo.Client, 0, len(ids))
	for _, c := range f.clients {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// fakeCatalog hands out a prebuilt snapshot.
type fakeCatalog struct {
	snap *catalogsvc.Snapshot
	err  error
}

func (f *fakeCatalog) LoadSnapshot(_ context.Context) (*catalogsvc.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func activeVendor(name string, days ...string) catalogrepo.Vendor {
	return catalogrepo.Vendor{ID: uuid.New(), Name: name, DeliveryDays: days, Active: true}
}

func activeItem(name string, valueCents int64) catalogrepo.Item {
	return catalogrepo.Item{ID: uuid.New(), Name: name, ValueCents: valueCents, Active: true}
}

func activeClient(name string, raw []byte) clientrepo.Client {
	return clientrepo.Client{
		ID:                uuid.New(),
		DisplayName:       name,
		StatusName:        "Active",
		DeliveriesAllowed: true,
		UpcomingConfig:    raw,
	}
}

func encodeConfig(t *testing.T, cfg *upcoming.Config) []byte {
	t.Helper()
	raw, err := upcoming.Encode(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	return raw
}

func foodConfig(t *testing.T, day string, vendorID uuid.UUID, items map[uuid.UUID]int) []byte {
	t.Helper()
	return encodeConfig(t, &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			DeliveryDayOrders: map[string]upcoming.DayOrder{
				day: {VendorSelections: []upcoming.VendorSelection{{VendorID: vendorID, Items: items}}},
			},
		},
	})
}

func newTestRunner(clients []clientrepo.Client, snap *catalogsvc.Snapshot, ledger repository.Ledger) *Runner {
	cfg := &config.Config{DefaultBatchSize: 2, TargetWeekOffset: 1}
	log := logger.New("development")
	runner := NewRunner(&fakeClients{clients: clients}, &fakeCatalog{snap: snap}, ledger, cfg, log)
	return runner.WithClock(func() time.Time { return testToday })
}

func TestRun_CreatesOrdersAndReports(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 250)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	client := activeClient("Ada", foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 2}))
	ledger := &fakeLedger{maxNumber: 100}

	runner := newTestRunner([]clientrepo.Client{client}, snap, ledger)
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Report.TotalCreated != 1 {
		t.Fatalf("expected 1 order created, got %d", result.Report.TotalCreated)
	}
	if result.Report.Breakdown["Food"] != 1 {
		t.Fatalf("expected Food breakdown 1, got %d", result.Report.Breakdown["Food"])
	}
	if len(ledger.orders) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(ledger.orders))
	}

	order := ledger.orders[0]
	if order.OrderNumber != 101 {
		t.Fatalf("expected order number 101, got %d", order.OrderNumber)
	}
	if order.CreationRunID != result.CreationRunID {
		t.Fatalf("expected order tagged with run id %s, got %s", result.CreationRunID, order.CreationRunID)
	}
	if order.DeliveryDate.Weekday() != time.Monday {
		t.Fatalf("expected Monday delivery, got %v", order.DeliveryDate.Weekday())
	}
	if !testWindow.Contains(order.DeliveryDate) {
		t.Fatalf("delivery date %v outside target week", order.DeliveryDate)
	}
	if order.TotalValueCents != 500 || order.TotalQuantity != 2 {
		t.Fatalf("expected total 500 cents / qty 2, got %d / %d", order.TotalValueCents, order.TotalQuantity)
	}

	if len(result.Report.Rows) != 1 {
		t.Fatalf("expected 1 report row, got %d", len(result.Report.Rows))
	}
	row := result.Report.Rows[0]
	if row.OrdersCreated != 1 || row.Reason != "" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if len(row.Vendors) != 1 || row.Vendors[0] != "Green Grocer" {
		t.Fatalf("expected vendor name in row, got %v", row.Vendors)
	}
}

func TestRun_SecondRunSkipsEverything(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 250)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	client := activeClient("Ada", foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 2}))
	ledger := &fakeLedger{}
	runner := newTestRunner([]clientrepo.Client{client}, snap, ledger)

	first, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Report.TotalCreated != 1 {
		t.Fatalf("expected first run to create 1 order, got %d", first.Report.TotalCreated)
	}

	second, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Report.TotalCreated != 0 {
		t.Fatalf("expected second run to create nothing, got %d", second.Report.TotalCreated)
	}
	if len(ledger.orders) != 1 {
		t.Fatalf("expected ledger unchanged, got %d orders", len(ledger.orders))
	}

	skipped := 0
	for _, d := range second.Report.Diagnostics {
		if d.Outcome == domain.OutcomeSkipped && d.Reason == reasonDuplicateOrder {
			skipped++
		}
	}
	if skipped != 1 {
		t.Fatalf("expected 1 duplicate diagnostic, got %d", skipped)
	}
}

func TestRun_BatchedMatchesSinglePass(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday", "Thursday")
	item := activeItem("Apples", 250)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	clients := make([]clientrepo.Client, 0, 5)
	for i := 0; i < 5; i++ {
		clients = append(clients, activeClient(
			fmt.Sprintf("Client %d", i),
			foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 1}),
		))
	}

	singleLedger := &fakeLedger{}
	single, err := newTestRunner(clients, snap, singleLedger).Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("single-pass run: %v", err)
	}

	batchedLedger := &fakeLedger{}
	batchedRunner := newTestRunner(clients, snap, batchedLedger)

	runID := uuid.New()
	weekStart := testWindow.Start
	totalCreated := 0
	for batchIndex := 0; ; batchIndex++ {
		result, err := batchedRunner.Run(context.Background(), RunParams{
			Batched:       true,
			BatchIndex:    batchIndex,
			BatchSize:     2,
			CreationRunID: runID,
			WeekStart:     &weekStart,
		})
		if err != nil {
			t.Fatalf("batch %d: %v", batchIndex, err)
		}
		if result.CreationRunID != runID {
			t.Fatalf("expected all batches to share run id %s, got %s", runID, result.CreationRunID)
		}
		totalCreated += result.Report.TotalCreated
		if result.Batch == nil {
			t.Fatalf("expected batch info on batched run")
		}
		if !result.Batch.HasMore {
			break
		}
	}

	if totalCreated != single.Report.TotalCreated {
		t.Fatalf("batched run created %d orders, single-pass %d", totalCreated, single.Report.TotalCreated)
	}
	if len(batchedLedger.orders) != len(singleLedger.orders) {
		t.Fatalf("batched ledger has %d orders, single-pass %d", len(batchedLedger.orders), len(singleLedger.orders))
	}
	for _, o := range batchedLedger.orders {
		if o.CreationRunID != runID {
			t.Fatalf("expected every batched order tagged %s, got %s", runID, o.CreationRunID)
		}
	}
}

func TestRun_IneligibleClientGetsReasonRow(t *testing.T) {
	snap := catalogsvc.NewSnapshot(nil, nil, nil)
	client := clientrepo.Client{
		ID:                uuid.New(),
		DisplayName:       "Berta",
		StatusName:        "Suspended",
		DeliveriesAllowed: false,
	}

	runner := newTestRunner([]clientrepo.Client{client}, snap, &fakeLedger{})
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Report.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Report.Rows))
	}
	want := `Status "Suspended" does not allow deliveries`
	if result.Report.Rows[0].Reason != want {
		t.Fatalf("expected reason %q, got %q", want, result.Report.Rows[0].Reason)
	}
}

func TestRun_ClientWithoutConfigGetsFallbackReason(t *testing.T) {
	snap := catalogsvc.NewSnapshot(nil, nil, nil)
	client := activeClient("Cleo", nil)
	client.ServiceType = "Food"

	runner := newTestRunner([]clientrepo.Client{client}, snap, &fakeLedger{})
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Report.Rows[0].Reason != "No upcoming Food orders" {
		t.Fatalf("expected fallback reason, got %q", result.Report.Rows[0].Reason)
	}
}

func TestRun_InvalidConfigDocumentIsReported(t *testing.T) {
	snap := catalogsvc.NewSnapshot(nil, nil, nil)
	client := activeClient("Dora", []byte(`{"serviceType":"Teleport"}`))

	runner := newTestRunner([]clientrepo.Client{client}, snap, &fakeLedger{})
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Report.Rows[0].Reason != "Invalid upcoming order configuration" {
		t.Fatalf("expected invalid-config reason, got %q", result.Report.Rows[0].Reason)
	}
}

func TestRun_SnapshotFailureFailsTheRun(t *testing.T) {
	cfg := &config.Config{DefaultBatchSize: 2, TargetWeekOffset: 1}
	runner := NewRunner(
		&fakeClients{},
		&fakeCatalog{err: errors.New("catalog down")},
		&fakeLedger{},
		cfg,
		logger.New("development"),
	).WithClock(func() time.Time { return testToday })

	if _, err := runner.Run(context.Background(), RunParams{}); err == nil {
		t.Fatalf("expected run to fail when reference data cannot load")
	}
}

func TestRun_InsertFailureBecomesReportEntryNotError(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 250)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	client := activeClient("Eve", foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 1}))
	ledger := &fakeLedger{insertErr: errors.New("disk full")}

	runner := newTestRunner([]clientrepo.Client{client}, snap, ledger)
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("expected per-order failure to stay inside the report, got %v", err)
	}

	if result.Report.TotalCreated != 0 {
		t.Fatalf("expected no orders created, got %d", result.Report.TotalCreated)
	}
	if len(result.Report.UnexpectedFailures) != 1 {
		t.Fatalf("expected 1 unexpected failure, got %d", len(result.Report.UnexpectedFailures))
	}
	if result.Report.UnexpectedFailures[0].Reason != "disk full" {
		t.Fatalf("expected failure reason propagated, got %q", result.Report.UnexpectedFailures[0].Reason)
	}
}

func TestRun_VendorBreakdownSumsMatchTotals(t *testing.T) {
	vendorA := activeVendor("Alpha Foods", "Monday")
	vendorB := activeVendor("Beta Pantry", "Tuesday")
	item := activeItem("Apples", 100)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendorA, vendorB}, []catalogrepo.Item{item}, nil)

	clients := []clientrepo.Client{
		activeClient("C1", foodConfig(t, "Monday", vendorA.ID, map[uuid.UUID]int{item.ID: 1})),
		activeClient("C2", foodConfig(t, "Monday", vendorA.ID, map[uuid.UUID]int{item.ID: 1})),
		activeClient("C3", foodConfig(t, "Tuesday", vendorB.ID, map[uuid.UUID]int{item.ID: 1})),
	}

	runner := newTestRunner(clients, snap, &fakeLedger{})
	result, err := runner.Run(context.Background(), RunParams{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Report.TotalCreated != 3 {
		t.Fatalf("expected 3 orders, got %d", result.Report.TotalCreated)
	}
	if len(result.Report.VendorBreakdown) != 2 {
		t.Fatalf("expected 2 vendor breakdown entries, got %d", len(result.Report.VendorBreakdown))
	}

	for _, vb := range result.Report.VendorBreakdown {
		sum := 0
		for _, n := range vb.ByDay {
			sum += n
		}
		if sum != vb.Total {
			t.Fatalf("vendor %s: byDay sum %d does not match total %d", vb.VendorName, sum, vb.Total)
		}
	}

	// Sorted by vendor name.
	if result.Report.VendorBreakdown[0].VendorName != "Alpha Foods" {
		t.Fatalf("expected Alpha Foods first, got %s", result.Report.VendorBreakdown[0].VendorName)
	}
	if result.Report.VendorBreakdown[0].Total != 2 || result.Report.VendorBreakdown[1].Total != 1 {
		t.Fatalf("unexpected vendor totals: %+v", result.Report.VendorBreakdown)
	}
}

func TestRun_ExplicitClientIDsBypassBatching(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 250)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	clients := []clientrepo.Client{
		activeClient("Ada", foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 1})),
		activeClient("Bob", foodConfig(t, "Monday", vendor.ID, map[uuid.UUID]int{item.ID: 1})),
	}

	runner := newTestRunner(clients, snap, &fakeLedger{})
	result, err := runner.Run(context.Background(), RunParams{ClientIDs: []uuid.UUID{clients[1].ID}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Report.TotalCreated != 1 {
		t.Fatalf("expected 1 order for the targeted client, got %d", result.Report.TotalCreated)
	}
	if result.Batch != nil {
		t.Fatalf("expected no batch info for a targeted run")
	}
	if result.Report.Rows[0].ClientName != "Bob" {
		t.Fatalf("expected only Bob processed, got %s", result.Report.Rows[0].ClientName)
	}
}
