package service

import (
	"sort"

	"github.com/google/uuid"

	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

const (
	reasonNoValidItems   = "No valid items in selection"
	reasonDayOutsideWeek = "Delivery day is outside the target week"
	reasonNoDeliveryDays = "No delivery day could be resolved for vendor"
	reasonNoVendorForBox = "No vendor set for box order"
)

// buildSelectionLines converts one vendor selection's item map into valued
// order lines. Items with a non-positive quantity or an id unknown to the
// catalog are skipped. Iteration is ordered by item id so repeated expansions
// of the same configuration produce identical line order.
func buildSelectionLines(sel upcoming.VendorSelection, snap *catalogsvc.Snapshot) ([]domain.LineIntent, int64, int) {
	lines := make([]domain.LineIntent, 0, len(sel.Items))
	var totalCents int64
	var totalQty int

	for _, itemID := range sortedItemIDs(sel.Items) {
		qty := sel.Items[itemID]
		if qty <= 0 {
			continue
		}
		unitCents, ok := snap.ItemValueCents(itemID)
		if !ok {
			continue
		}

		id := itemID
		line := domain.LineIntent{
			ItemID:          &id,
			Quantity:        qty,
			UnitValueCents:  unitCents,
			TotalValueCents: unitCents * int64(qty),
			Note:            sel.ItemNotes[itemID],
		}
		lines = append(lines, line)
		totalCents += line.TotalValueCents
		totalQty += qty
	}

	return lines, totalCents, totalQty
}

func sortedItemIDs(items map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
