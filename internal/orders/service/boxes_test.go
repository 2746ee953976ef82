package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "mealbenefits_backend/internal/catalog/repository"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
)

func boxOrder(vendorID uuid.UUID, quantity int, items map[uuid.UUID]int) upcoming.BoxOrder {
	return upcoming.BoxOrder{
		BoxTypeID: uuid.New(),
		VendorID:  &vendorID,
		Quantity:  quantity,
		Items:     items,
	}
}

func TestExpandBoxes_MergesVendorsIntoOneIntent(t *testing.T) {
	tuesdayVendor := activeVendor("Tuesday Boxes", "Tuesday")
	fridayVendor := activeVendor("Friday Boxes", "Friday")
	itemA := activeItem("Rice", 300)
	itemB := activeItem("Beans", 200)
	snap := catalogsvc.NewSnapshot(
		[]catalogrepo.Vendor{tuesdayVendor, fridayVendor},
		[]catalogrepo.Item{itemA, itemB},
		nil,
	)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceBoxes,
		Boxes: &upcoming.BoxesConfig{
			BoxOrders: []upcoming.BoxOrder{
				boxOrder(fridayVendor.ID, 2, map[uuid.UUID]int{itemA.ID: 1}),
				boxOrder(tuesdayVendor.ID, 1, map[uuid.UUID]int{itemB.ID: 3}),
			},
		},
	}

	intents, drops := ExpandBoxes(cfg, testWindow, snap)
	if len(drops) != 0 {
		t.Fatalf("expected no drops, got %v", drops)
	}
	if len(intents) != 1 {
		t.Fatalf("expected a single merged intent, got %d", len(intents))
	}

	intent := intents[0]
	if len(intent.Selections) != 2 {
		t.Fatalf("expected one selection per vendor, got %d", len(intent.Selections))
	}
	if intent.DeliveryDate.Weekday() != time.Tuesday {
		t.Fatalf("expected globally earliest day Tuesday, got %v", intent.DeliveryDate.Weekday())
	}

	// Box quantity multiplies item quantity: 2 boxes x 1 rice, 1 box x 3 beans.
	if intent.TotalQuantity != 5 {
		t.Fatalf("expected total quantity 5, got %d", intent.TotalQuantity)
	}
	if intent.TotalValueCents != 2*300+3*200 {
		t.Fatalf("expected total 1200 cents, got %d", intent.TotalValueCents)
	}
}

func TestExpandBoxes_MissingVendorBlocksWholeOrder(t *testing.T) {
	vendor := activeVendor("Tuesday Boxes", "Tuesday")
	item := activeItem("Rice", 300)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceBoxes,
		Boxes: &upcoming.BoxesConfig{
			BoxOrders: []upcoming.BoxOrder{
				boxOrder(vendor.ID, 1, map[uuid.UUID]int{item.ID: 1}),
				{BoxTypeID: uuid.New(), Quantity: 1, Items: map[uuid.UUID]int{item.ID: 1}},
			},
		},
	}

	intents, drops := ExpandBoxes(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents when any box lacks a vendor, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoVendorForBox {
		t.Fatalf("expected no-vendor drop, got %v", drops)
	}
}

func TestExpandBoxes_NoResolvableDeliveryDay(t *testing.T) {
	vendor := activeVendor("Dayless Boxes")
	item := activeItem("Rice", 300)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceBoxes,
		Boxes: &upcoming.BoxesConfig{
			BoxOrders: []upcoming.BoxOrder{boxOrder(vendor.ID, 1, map[uuid.UUID]int{item.ID: 1})},
		},
	}

	intents, drops := ExpandBoxes(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoDeliveryDays {
		t.Fatalf("expected no-delivery-days drop, got %v", drops)
	}
}

func TestExpandBoxes_NoValidItems(t *testing.T) {
	vendor := activeVendor("Tuesday Boxes", "Tuesday")
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, nil, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceBoxes,
		Boxes: &upcoming.BoxesConfig{
			BoxOrders: []upcoming.BoxOrder{boxOrder(vendor.ID, 1, map[uuid.UUID]int{uuid.New(): 2})},
		},
	}

	intents, drops := ExpandBoxes(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoValidItems {
		t.Fatalf("expected no-valid-items drop, got %v", drops)
	}
}

func TestExpandBoxes_ZeroQuantityDefaultsToOne(t *testing.T) {
	vendor := activeVendor("Tuesday Boxes", "Tuesday")
	item := activeItem("Rice", 300)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceBoxes,
		Boxes: &upcoming.BoxesConfig{
			BoxOrders: []upcoming.BoxOrder{boxOrder(vendor.ID, 0, map[uuid.UUID]int{item.ID: 2})},
		},
	}

	intents, _ := ExpandBoxes(cfg, testWindow, snap)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if intents[0].TotalQuantity != 2 || intents[0].TotalValueCents != 600 {
		t.Fatalf("expected qty 2 / 600 cents, got %d / %d", intents[0].TotalQuantity, intents[0].TotalValueCents)
	}
}
