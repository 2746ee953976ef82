package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/clients/upcoming"
)

func customConfig(day, names string, priceCents int64) *upcoming.Config {
	return &upcoming.Config{
		ServiceType: upcoming.ServiceCustom,
		Custom: &upcoming.CustomConfig{
			DeliveryDay:      day,
			VendorID:         uuid.New(),
			CustomName:       names,
			CustomPriceCents: priceCents,
		},
	}
}

func TestExpandCustom_SplitsPriceWithRemainderOnLastLine(t *testing.T) {
	cfg := customConfig("Friday", "Bread, Milk, Eggs", 1000)

	intents, drops := ExpandCustom(cfg, testWindow)
	if len(drops) != 0 {
		t.Fatalf("expected no drops, got %v", drops)
	}
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}

	intent := intents[0]
	if intent.DeliveryDate.Weekday() != time.Friday {
		t.Fatalf("expected Friday delivery, got %v", intent.DeliveryDate.Weekday())
	}
	if intent.TotalQuantity != 3 || intent.TotalValueCents != 1000 {
		t.Fatalf("expected 3 lines totaling 1000, got qty %d / %d cents", intent.TotalQuantity, intent.TotalValueCents)
	}

	lines := intent.Selections[0].Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].TotalValueCents != 333 || lines[1].TotalValueCents != 333 || lines[2].TotalValueCents != 334 {
		t.Fatalf("expected 333/333/334 split, got %d/%d/%d",
			lines[0].TotalValueCents, lines[1].TotalValueCents, lines[2].TotalValueCents)
	}

	var sum int64
	for _, line := range lines {
		sum += line.TotalValueCents
	}
	if sum != 1000 {
		t.Fatalf("line totals must reproduce the configured price exactly, got %d", sum)
	}

	if lines[0].CustomName != "Bread" || lines[1].CustomName != "Milk" || lines[2].CustomName != "Eggs" {
		t.Fatalf("expected trimmed names in order, got %q %q %q",
			lines[0].CustomName, lines[1].CustomName, lines[2].CustomName)
	}
}

func TestExpandCustom_SingleNameKeepsFullPrice(t *testing.T) {
	cfg := customConfig("Monday", "Gift Basket", 2499)

	intents, _ := ExpandCustom(cfg, testWindow)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	lines := intents[0].Selections[0].Lines
	if len(lines) != 1 || lines[0].TotalValueCents != 2499 {
		t.Fatalf("expected one line with the full price, got %v", lines)
	}
}

func TestExpandCustom_UnknownDayIsDropped(t *testing.T) {
	cfg := customConfig("Noday", "Bread", 100)

	intents, drops := ExpandCustom(cfg, testWindow)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonDayOutsideWeek {
		t.Fatalf("expected day-outside-week drop, got %v", drops)
	}
}

func TestExpandCustom_EmptyNameListIsDropped(t *testing.T) {
	cfg := customConfig("Monday", " , ,", 100)

	intents, drops := ExpandCustom(cfg, testWindow)
	if len(intents) != 0 {
		t.Fatalf("expected no intents, got %d", len(intents))
	}
	if len(drops) != 1 || drops[0].Reason != reasonNoValidItems {
		t.Fatalf("expected no-valid-items drop, got %v", drops)
	}
}

func TestSplitCents_SumAlwaysExact(t *testing.T) {
	cases := []struct {
		total int64
		n     int
	}{
		{1000, 3},
		{1001, 3},
		{999, 2},
		{1, 5},
		{0, 4},
		{2499, 7},
	}

	for _, tc := range cases {
		var sum int64
		for i := 0; i < tc.n; i++ {
			sum += splitCents(tc.total, tc.n, i)
		}
		if sum != tc.total {
			t.Fatalf("split of %d across %d lines sums to %d", tc.total, tc.n, sum)
		}
	}
}
