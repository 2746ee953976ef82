package service

import (
	"testing"

	"github.com/google/uuid"

	catalogrepo "mealbenefits_backend/internal/catalog/repository"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
)

func foodConfigFor(vendorID uuid.UUID, items map[uuid.UUID]int) *upcoming.Config {
	return &upcoming.Config{
		ServiceType: upcoming.ServiceFood,
		Food: &upcoming.FoodConfig{
			DeliveryDayOrders: map[string]upcoming.DayOrder{
				"Monday": {VendorSelections: []upcoming.VendorSelection{{VendorID: vendorID, Items: items}}},
			},
		},
	}
}

func TestCheckBlockingIssues_CleanConfigPasses(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 100)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(vendor.ID, map[uuid.UUID]int{item.ID: 1}), snap)
	if blocked {
		t.Fatalf("expected clean config to pass, got %q", reason)
	}
}

func TestCheckBlockingIssues_UnknownItemBlocks(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, nil, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(vendor.ID, map[uuid.UUID]int{uuid.New(): 1}), snap)
	if !blocked {
		t.Fatalf("expected orphaned item reference to block")
	}
	if reason != reasonBlockedItems {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestCheckBlockingIssues_InactiveItemBlocks(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 100)
	item.Active = false
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(vendor.ID, map[uuid.UUID]int{item.ID: 1}), snap)
	if !blocked || reason != reasonBlockedItems {
		t.Fatalf("expected inactive item to block, got blocked=%v reason=%q", blocked, reason)
	}
}

func TestCheckBlockingIssues_InactiveCategoryBlocks(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	item := activeItem("Apples", 100)
	inactive := false
	categoryID := uuid.New()
	item.CategoryID = &categoryID
	item.CategoryActive = &inactive
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(vendor.ID, map[uuid.UUID]int{item.ID: 1}), snap)
	if !blocked || reason != reasonBlockedItems {
		t.Fatalf("expected item in inactive category to block, got blocked=%v reason=%q", blocked, reason)
	}
}

func TestCheckBlockingIssues_InactiveVendorBlocks(t *testing.T) {
	vendor := activeVendor("Green Grocer", "Monday")
	vendor.Active = false
	item := activeItem("Apples", 100)
	snap := catalogsvc.NewSnapshot([]catalogrepo.Vendor{vendor}, []catalogrepo.Item{item}, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(vendor.ID, map[uuid.UUID]int{item.ID: 1}), snap)
	if !blocked || reason != reasonBlockedVendor {
		t.Fatalf("expected inactive vendor to block, got blocked=%v reason=%q", blocked, reason)
	}
}

func TestCheckBlockingIssues_MissingVendorBlocks(t *testing.T) {
	item := activeItem("Apples", 100)
	snap := catalogsvc.NewSnapshot(nil, []catalogrepo.Item{item}, nil)

	blocked, reason := CheckBlockingIssues(foodConfigFor(uuid.New(), map[uuid.UUID]int{item.ID: 1}), snap)
	if !blocked || reason != reasonBlockedVendor {
		t.Fatalf("expected missing vendor to block, got blocked=%v reason=%q", blocked, reason)
	}
}
