package exports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"

	"mealbenefits_backend/internal/orders/domain"
)

func TestRenderClientReportCSV(t *testing.T) {
	clientID := uuid.New()
	rows := []domain.ClientReportRow{
		{
			ClientID:      clientID,
			ClientName:    "Ada Lovelace",
			OrdersCreated: 2,
			Vendors:       []string{"Alpha Foods", "Beta Pantry"},
			Types:         []string{"Food"},
		},
		{
			ClientID:   uuid.New(),
			ClientName: "Bob",
			Vendors:    []string{},
			Types:      []string{},
			Reason:     "No upcoming Food orders",
		},
	}

	data, err := RenderClientReportCSV(rows)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse rendered csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Client ID" || records[0][5] != "Reason" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != clientID.String() || first[1] != "Ada Lovelace" || first[2] != "2" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[3] != "Alpha Foods, Beta Pantry" {
		t.Fatalf("expected joined vendor names, got %q", first[3])
	}

	second := records[2]
	if second[2] != "0" || second[5] != "No upcoming Food orders" {
		t.Fatalf("unexpected second row: %v", second)
	}
}

func TestRenderClientReportCSV_Empty(t *testing.T) {
	data, err := RenderClientReportCSV(nil)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse rendered csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
