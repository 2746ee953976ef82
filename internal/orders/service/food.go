package service

import (
	"sort"

	"mealbenefits_backend/internal/calendar"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

// ExpandFood converts a Food configuration into one order intent per
// (weekday, vendor) pair. Day-keyed configurations resolve each weekday name
// directly inside the target week; legacy flat configurations are first
// converted to the day-keyed form using each vendor's own delivery days,
// taking the earliest supported day.
func ExpandFood(cfg *upcoming.Config, window calendar.Window, snap *catalogsvc.Snapshot) ([]domain.Intent, []domain.Drop) {
	if cfg == nil || cfg.Food == nil {
		return nil, nil
	}

	var drops []domain.Drop

	dayOrders := cfg.Food.DeliveryDayOrders
	if len(dayOrders) == 0 && len(cfg.Food.VendorSelections) > 0 {
		dayOrders, drops = convertLegacySelections(cfg.Food.VendorSelections, window, snap)
	}

	intents := make([]domain.Intent, 0, len(dayOrders))
	for _, dayName := range sortedDayNames(dayOrders) {
		day := dayOrders[dayName]

		date, ok := window.ResolveFixedDay(dayName)
		if !ok {
			for _, sel := range day.VendorSelections {
				drops = append(drops, domain.Drop{VendorID: sel.VendorID, Reason: reasonDayOutsideWeek})
			}
			continue
		}

		for _, sel := range day.VendorSelections {
			lines, totalCents, totalQty := buildSelectionLines(sel, snap)
			if len(lines) == 0 {
				drops = append(drops, domain.Drop{VendorID: sel.VendorID, Date: date, Reason: reasonNoValidItems})
				continue
			}

			intents = append(intents, domain.Intent{
				ServiceType:     upcoming.ServiceFood,
				DeliveryDate:    date,
				Selections:      []domain.SelectionIntent{{VendorID: sel.VendorID, Lines: lines}},
				TotalValueCents: totalCents,
				TotalQuantity:   totalQty,
				Notes:           cfg.Notes,
				CaseID:          cfg.CaseID,
			})
		}
	}

	return intents, drops
}

// convertLegacySelections maps flat vendor selections onto delivery days using
// each vendor's configured delivery-day set, earliest day first.
func convertLegacySelections(selections []upcoming.VendorSelection, window calendar.Window, snap *catalogsvc.Snapshot) (map[string]upcoming.DayOrder, []domain.Drop) {
	dayOrders := make(map[string]upcoming.DayOrder)
	var drops []domain.Drop

	for _, sel := range selections {
		date, ok := window.ResolveEarliestDay(snap.VendorDeliveryDays(sel.VendorID))
		if !ok {
			drops = append(drops, domain.Drop{VendorID: sel.VendorID, Reason: reasonNoDeliveryDays})
			continue
		}

		dayName := date.Weekday().String()
		day := dayOrders[dayName]
		day.VendorSelections = append(day.VendorSelections, sel)
		dayOrders[dayName] = day
	}

	return dayOrders, drops
}

// sortedDayNames orders weekday keys chronologically within the week, with
// unparseable names last so their drops are still reported deterministically.
func sortedDayNames(dayOrders map[string]upcoming.DayOrder) []string {
	names := make([]string, 0, len(dayOrders))
	for name := range dayOrders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, iok := calendar.ParseWeekday(names[i])
		dj, jok := calendar.ParseWeekday(names[j])
		if iok != jok {
			return iok
		}
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}
