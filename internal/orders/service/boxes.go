package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/calendar"
	catalogsvc "mealbenefits_backend/internal/catalog/service"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

// ExpandBoxes merges all of a client's box lines into a single order intent:
// one materialized order with one vendor-selection sub-record per distinct
// vendor, dated at the globally earliest resolvable delivery date across
// those vendors. A missing vendor id on any line blocks the whole box order
// for the run. Line value is item value times item quantity times box
// quantity.
func ExpandBoxes(cfg *upcoming.Config, window calendar.Window, snap *catalogsvc.Snapshot) ([]domain.Intent, []domain.Drop) {
	if cfg == nil || cfg.Boxes == nil || len(cfg.Boxes.BoxOrders) == 0 {
		return nil, nil
	}

	for _, box := range cfg.Boxes.BoxOrders {
		if box.VendorID == nil || *box.VendorID == uuid.Nil {
			return nil, []domain.Drop{{Reason: reasonNoVendorForBox}}
		}
	}

	// Accumulate lines per vendor while tracking the earliest resolvable
	// delivery date across every vendor involved.
	linesByVendor := make(map[uuid.UUID][]domain.LineIntent)
	var totalCents int64
	var totalQty int
	var earliest time.Time
	dateFound := false

	for _, box := range cfg.Boxes.BoxOrders {
		vendorID := *box.VendorID
		quantity := box.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		if date, ok := window.ResolveEarliestDay(snap.VendorDeliveryDays(vendorID)); ok {
			if !dateFound || date.Before(earliest) {
				earliest = date
				dateFound = true
			}
		}

		for _, itemID := range sortedItemIDs(box.Items) {
			qty := box.Items[itemID]
			if qty <= 0 {
				continue
			}
			unitCents, ok := snap.ItemValueCents(itemID)
			if !ok {
				continue
			}

			id := itemID
			lineQty := qty * quantity
			line := domain.LineIntent{
				ItemID:          &id,
				Quantity:        lineQty,
				UnitValueCents:  unitCents,
				TotalValueCents: unitCents * int64(lineQty),
				Note:            box.ItemNotes[itemID],
			}
			linesByVendor[vendorID] = append(linesByVendor[vendorID], line)
			totalCents += line.TotalValueCents
			totalQty += lineQty
		}
	}

	if !dateFound {
		return nil, []domain.Drop{{Reason: reasonNoDeliveryDays}}
	}
	if len(linesByVendor) == 0 {
		return nil, []domain.Drop{{Date: earliest, Reason: reasonNoValidItems}}
	}

	vendorIDs := make([]uuid.UUID, 0, len(linesByVendor))
	for vendorID := range linesByVendor {
		vendorIDs = append(vendorIDs, vendorID)
	}
	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i].String() < vendorIDs[j].String() })

	selections := make([]domain.SelectionIntent, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		selections = append(selections, domain.SelectionIntent{VendorID: vendorID, Lines: linesByVendor[vendorID]})
	}

	intent := domain.Intent{
		ServiceType:     upcoming.ServiceBoxes,
		DeliveryDate:    earliest,
		Selections:      selections,
		TotalValueCents: totalCents,
		TotalQuantity:   totalQty,
		Notes:           cfg.Notes,
		CaseID:          cfg.CaseID,
	}
	return []domain.Intent{intent}, nil
}
