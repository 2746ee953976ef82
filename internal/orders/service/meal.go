package service

import (
	"github.com/google/uuid"

	"mealbenefits_backend/internal/calendar"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

// ExpandMeal converts a Meal configuration into one order intent per meal
// slot that names a vendor. The delivery date is the vendor's earliest
// supported day in the target week. Slots without a vendor, slots whose
// vendor has no resolvable delivery day, and slots with no valid items are
// omitted without a diagnostic.
func ExpandMeal(cfg *upcoming.Config, window calendar.Window, snap *catalogsvc.Snapshot) []domain.Intent {
	if cfg == nil || cfg.Meal == nil {
		return nil
	}

	intents := make([]domain.Intent, 0, len(cfg.Meal.MealSelections))
	for _, slot := range sortedKeys(cfg.Meal.MealSelections) {
		sel := cfg.Meal.MealSelections[slot]
		if sel.VendorID == uuid.Nil {
			continue
		}

		date, ok := window.ResolveEarliestDay(snap.VendorDeliveryDays(sel.VendorID))
		if !ok {
			continue
		}

		lines, totalCents, totalQty := buildSelectionLines(sel, snap)
		if len(lines) == 0 {
			continue
		}

		intents = append(intents, domain.Intent{
			ServiceType:     upcoming.ServiceMeal,
			DeliveryDate:    date,
			Selections:      []domain.SelectionIntent{{VendorID: sel.VendorID, Lines: lines}},
			TotalValueCents: totalCents,
			TotalQuantity:   totalQty,
			Notes:           cfg.Notes,
			CaseID:          cfg.CaseID,
		})
	}

	return intents
}
