package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "mealbenefits_backend/internal/catalog/repository"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
)

func TestExpandMeal_OneIntentPerSlot(t *testing.T) {
	vendor := activeVendor("Meal Co", "Wednesday")
	item := activeItem("Lunch Box", 700)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceMeal,
		Meal: &upcoming.MealConfig{
			MealSelections: map[string]upcoming.VendorSelection{
				"lunch":  {VendorID: vendor.ID, Items: map[uuid.UUID]int{item.ID: 5}},
				"dinner": {VendorID: vendor.ID, Items: map[uuid.UUID]int{item.ID: 3}},
			},
		},
	}

	intents := ExpandMeal(cfg, testWindow, snap)
	if len(intents) != 2 {
		t.Fatalf("expected 2 intents, got %d", len(intents))
	}

	for _, intent := range intents {
		if intent.DeliveryDate.Weekday() != time.Wednesday {
			t.Fatalf("expected Wednesday delivery, got %v", intent.DeliveryDate.Weekday())
		}
		if intent.ServiceType != upcoming.ServiceMeal {
			t.Fatalf("expected Meal intent, got %s", intent.ServiceType)
		}
	}

	// Slot keys sort alphabetically: dinner before lunch.
	if intents[0].TotalQuantity != 3 || intents[1].TotalQuantity != 5 {
		t.Fatalf("unexpected slot order: quantities %d, %d", intents[0].TotalQuantity, intents[1].TotalQuantity)
	}
}

func TestExpandMeal_SkipsUnusableSlots(t *testing.T) {
	withDays := activeVendor("Meal Co", "Wednesday")
	noDays := activeVendor("Dayless Kitchen")
	item := activeItem("Lunch Box", 700)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{withDays, noDays}, []catalogrepo.Item{item}, nil)

	cfg := &upcoming.Config{
		ServiceType: upcoming.ServiceMeal,
		Meal: &upcoming.MealConfig{
			MealSelections: map[string]upcoming.VendorSelection{
				"breakfast": {},
				"lunch":     {VendorID: noDays.ID, Items: map[uuid.UUID]int{item.ID: 1}},
				"snack":     {VendorID: withDays.ID, Items: map[uuid.UUID]int{uuid.New(): 1}},
				"dinner":    {VendorID: withDays.ID, Items: map[uuid.UUID]int{item.ID: 2}},
			},
		},
	}

	intents := ExpandMeal(cfg, testWindow, snap)
	if len(intents) != 1 {
		t.Fatalf("expected only the dinner slot to expand, got %d intents", len(intents))
	}
	if intents[0].TotalQuantity != 2 || intents[0].TotalValueCents != 1400 {
		t.Fatalf("unexpected intent totals: qty %d, %d cents", intents[0].TotalQuantity, intents[0].TotalValueCents)
	}
}
