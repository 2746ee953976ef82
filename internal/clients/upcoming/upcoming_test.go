package upcoming

import (
	"testing"

	"github.com/google/uuid"
)

func TestDecode_EmptyDocumentMeansNoConfig(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("null")} {
		cfg, err := Decode(raw)
		if err != nil {
			t.Fatalf("expected no error for %q, got %v", raw, err)
		}
		if cfg != nil {
			t.Fatalf("expected nil config for %q, got %+v", raw, cfg)
		}
	}
}

func TestDecode_MissingServiceTypeDefaultsToFood(t *testing.T) {
	vendorID := uuid.New()
	itemID := uuid.New()
	raw := []byte(`{"vendorSelections":[{"vendorId":"` + vendorID.String() + `","items":{"` + itemID.String() + `":2}}]}`)

	cfg, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.ServiceType != ServiceFood {
		t.Fatalf("expected Food, got %s", cfg.ServiceType)
	}
	if cfg.Food == nil || len(cfg.Food.VendorSelections) != 1 {
		t.Fatalf("expected one legacy vendor selection, got %+v", cfg.Food)
	}
	if qty := cfg.Food.VendorSelections[0].Items[itemID]; qty != 2 {
		t.Fatalf("expected quantity 2, got %d", qty)
	}
}

func TestDecode_FoodDayKeyed(t *testing.T) {
	vendorID := uuid.New()
	itemID := uuid.New()
	raw := []byte(`{
		"serviceType": "Food",
		"caseId": "CASE-42",
		"deliveryDayOrders": {
			"Tuesday": {"vendorSelections": [{"vendorId": "` + vendorID.String() + `", "items": {"` + itemID.String() + `": 3}}]}
		}
	}`)

	cfg, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.CaseID != "CASE-42" {
		t.Fatalf("expected caseId CASE-42, got %q", cfg.CaseID)
	}
	day, ok := cfg.Food.DeliveryDayOrders["Tuesday"]
	if !ok || len(day.VendorSelections) != 1 {
		t.Fatalf("expected Tuesday selections, got %+v", cfg.Food.DeliveryDayOrders)
	}
}

func TestDecode_CustomVariant(t *testing.T) {
	vendorID := uuid.New()
	raw := []byte(`{
		"serviceType": "Custom",
		"deliveryDay": "Friday",
		"vendorId": "` + vendorID.String() + `",
		"custom_name": "Turkey dinner, Side salad",
		"custom_price": 2599
	}`)

	cfg, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Custom == nil {
		t.Fatalf("expected custom variant")
	}
	if cfg.Custom.VendorID != vendorID {
		t.Fatalf("expected vendor %s, got %s", vendorID, cfg.Custom.VendorID)
	}
	if cfg.Custom.CustomPriceCents != 2599 {
		t.Fatalf("expected 2599 cents, got %d", cfg.Custom.CustomPriceCents)
	}
}

func TestDecode_UnknownServiceTypeFails(t *testing.T) {
	if _, err := Decode([]byte(`{"serviceType":"Pizza"}`)); err == nil {
		t.Fatalf("expected unknown service type to fail")
	}
}

func TestEncodeDecode_BoxesRoundTrip(t *testing.T) {
	vendorID := uuid.New()
	boxTypeID := uuid.New()
	itemID := uuid.New()

	cfg := &Config{
		ServiceType: ServiceBoxes,
		CaseID:      "CASE-7",
		Boxes: &BoxesConfig{
			BoxOrders: []BoxOrder{{
				BoxTypeID: boxTypeID,
				VendorID:  &vendorID,
				Quantity:  2,
				Items:     map[uuid.UUID]int{itemID: 5},
			}},
		},
	}

	raw, err := Encode(cfg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ServiceType != ServiceBoxes || decoded.Boxes == nil {
		t.Fatalf("expected boxes variant, got %+v", decoded)
	}
	if len(decoded.Boxes.BoxOrders) != 1 || decoded.Boxes.BoxOrders[0].Quantity != 2 {
		t.Fatalf("expected one box order of quantity 2, got %+v", decoded.Boxes.BoxOrders)
	}
}

func TestVendorAndItemIDs(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()

	cfg := &Config{
		ServiceType: ServiceFood,
		Food: &FoodConfig{
			DeliveryDayOrders: map[string]DayOrder{
				"Monday": {VendorSelections: []VendorSelection{
					{VendorID: vendorA, Items: map[uuid.UUID]int{itemA: 1, itemB: 2}},
					{VendorID: vendorB, Items: map[uuid.UUID]int{itemA: 1}},
				}},
			},
		},
	}

	if got := len(cfg.VendorIDs()); got != 2 {
		t.Fatalf("expected 2 vendor ids, got %d", got)
	}
	if got := len(cfg.ItemIDs()); got != 2 {
		t.Fatalf("expected 2 item ids, got %d", got)
	}
}
