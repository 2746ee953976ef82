package service

import (
	"strings"

	"mealbenefits_backend/internal/calendar"
	"mealbenefits_backend/internal/clients/upcoming"
	"mealbenefits_backend/internal/orders/domain"
)

// ExpandCustom converts a Custom configuration into a single order intent.
// The custom name may encode several comma-separated item names, each
// becoming its own line; the total price is divided evenly across the named
// lines with the rounding remainder assigned to the last line so the line
// totals always reproduce the configured total exactly.
func ExpandCustom(cfg *upcoming.Config, window calendar.Window) ([]domain.Intent, []domain.Drop) {
	if cfg == nil || cfg.Custom == nil {
		return nil, nil
	}
	custom := cfg.Custom

	date, ok := window.ResolveFixedDay(custom.DeliveryDay)
	if !ok {
		return nil, []domain.Drop{{VendorID: custom.VendorID, Reason: reasonDayOutsideWeek}}
	}

	names := splitCustomNames(custom.CustomName)
	if len(names) == 0 {
		return nil, []domain.Drop{{VendorID: custom.VendorID, Date: date, Reason: reasonNoValidItems}}
	}

	lines := make([]domain.LineIntent, 0, len(names))
	for i, name := range names {
		lineCents := splitCents(custom.CustomPriceCents, len(names), i)
		lines = append(lines, domain.LineIntent{
			CustomName:      name,
			Quantity:        1,
			UnitValueCents:  lineCents,
			TotalValueCents: lineCents,
		})
	}

	notes := custom.Notes
	if notes == "" {
		notes = cfg.Notes
	}

	intent := domain.Intent{
		ServiceType:     upcoming.ServiceCustom,
		DeliveryDate:    date,
		Selections:      []domain.SelectionIntent{{VendorID: custom.VendorID, Lines: lines}},
		TotalValueCents: custom.CustomPriceCents,
		TotalQuantity:   len(names),
		Notes:           notes,
		CaseID:          cfg.CaseID,
	}
	return []domain.Intent{intent}, nil
}

func splitCustomNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// splitCents returns line index i's share of an even n-way split of total.
// Every line gets the floor share; the last line absorbs the remainder.
func splitCents(total int64, n, i int) int64 {
	base := total / int64(n)
	if i == n-1 {
		return total - base*int64(n-1)
	}
	return base
}
