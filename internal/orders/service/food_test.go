package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "mealbenefits_backend/internal/catalog/repository"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
)

func TestExpandFood_OneIntentPerDayVendorPair(t *testing.T) {
	vendorA := activeVendor("Alpha Foods", "Monday")
	vendorB := activeVendor("Beta Pantry", "Monday")
	item := activeItem("Apples", 150)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendorA, vendorB}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			DeliveryDayOrders: map[string]upcoming.DayOrder{
				"Monday": {VendorSelections: []upcoming.VendorSelection{
					{VendorID: vendorA.ID, Items: map[uuid.UUID]int{item.ID: 2}},
					{VendorID: vendorB.ID, Items: map[uuid.UUID]int{item.ID: 1}},
				}},
				"Thursday": {VendorSelections: []upcoming.VendorSelection{
					{VendorID: vendorA.ID, Items: map[uuid.UUID]int{item.ID: 3}},
				}},
			},
		},
	}

	intents, drops := ExpandFood(cfg, testWindow, snap)
	if len(drops) != 0 {
		t.Fatalf("expected no drops, got %v", drops)
	}
	if len(intents) != 3 {
		t.Fatalf("expected 3 intents, got %d", len(intents))
	}

	for _, intent := range intents {
		if intent.ServiceType != upcoming.ServiceFood {
			t.Fatalf("expected Food intent, got %s", intent.ServiceType)
		}
		if len(intent.Selections) != 1 {
			t.Fatalf("expected single-vendor intent, got %d selections", len(intent.Selections))
		}
		if !testWindow.Contains(intent.DeliveryDate) {
			t.Fatalf("intent dated %v outside target week", intent.DeliveryDate)
		}
	}

	// Days resolve chronologically: both Monday intents precede Thursday.
	if intents[0].DeliveryDate.Weekday() != time.Monday || intents[2].DeliveryDate.Weekday() != time.Thursday {
		t.Fatalf("expected Monday, Monday, Thursday order, got %v %v %v",
			intents[0].DeliveryDate.Weekday(), intents[1].DeliveryDate.Weekday(), intents[2].DeliveryDate.Weekday())
	}

	if intents[0].TotalValueCents != 300 || intents[0].TotalQuantity != 2 {
		t.Fatalf("unexpected first intent totals: %d cents, qty %d", intents[0].TotalValueCents, intents[0].TotalQuantity)
	}
}

func TestExpandFood_UnknownDayNameIsDropped(t *testing.T) {
	vendor := activeVendor("Alpha Foods", "Monday")
	item := activeItem("Apples", 150)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			DeliveryDayOrders: map[string]upcoming.DayOrder{
				"Someday": {VendorSelections: []upcoming.VendorSelection{
					{VendorID: vendor.ID, Items: map[uuid.UUID]int{item.ID: 1}},
				}},
			},
		},
	}

	intents, drops := ExpandFood(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonDayOutsideWeek {
		t.Fatalf("expected day-outside-week drop, got %v", drops)
	}
	if drops[0].VendorID != vendor.ID {
		t.Fatalf("expected drop attributed to vendor, got %s", drops[0].VendorID)
	}
}

func TestExpandFood_SelectionWithNoValidItemsIsDropped(t *testing.T) {
	vendor := activeVendor("Alpha Foods", "Monday")
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, nil, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			DeliveryDayOrders: map[string]upcoming.DayOrder{
				"Monday": {VendorSelections: []upcoming.VendorSelection{
					{VendorID: vendor.ID, Items: map[uuid.UUID]int{uuid.New(): 1, uuid.New(): 0}},
				}},
			},
		},
	}

	intents, drops := ExpandFood(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoValidItems {
		t.Fatalf("expected no-valid-items drop, got %v", drops)
	}
}

func TestExpandFood_LegacySelectionsResolveEarliestVendorDay(t *testing.T) {
	vendor := activeVendor("Alpha Foods", "Thursday", "Tuesday")
	item := activeItem("Apples", 150)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			VendorSelections: []upcoming.VendorSelection{
				{VendorID: vendor.ID, Items: map[uuid.UUID]int{item.ID: 2}},
			},
		},
	}

	intents, drops := ExpandFood(cfg, testWindow, snap)
	if len(drops) != 0 {
		t.Fatalf("expected no drops, got %v", drops)
	}
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if intents[0].DeliveryDate.Weekday() != time.Tuesday {
		t.Fatalf("expected earliest vendor day Tuesday, got %v", intents[0].DeliveryDate.Weekday())
	}
}

func TestExpandFood_LegacyVendorWithoutDeliveryDaysIsDropped(t *testing.T) {
	vendor := activeVendor("Alpha Foods")
	item := activeItem("Apples", 150)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			VendorSelections: []upcoming.VendorSelection{
				{VendorID: vendor.ID, Items: map[uuid.UUID]int{item.ID: 1}},
			},
		},
	}

	intents, drops := ExpandFood(cfg, testWindow, snap)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoDeliveryDays {
		t.Fatalf("expected no-delivery-days drop, got %v", drops)
	}
}
