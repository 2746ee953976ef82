// Package exports renders run reports to CSV and delivers them to object
// storage and email after each completed run invocation.
package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"mealbenefits_backend/internal/orders/domain"
)

// RenderClientReportCSV renders the per-client report rows to CSV, one row
// per client, matching the columns the reconciliation spreadsheet expects.
func RenderClientReportCSV(rows []domain.ClientReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Client ID", "Client Name", "Orders Created", "Vendors", "Types", "Reason"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ClientID.String(),
			row.ClientName,
			strconv.Itoa(row.OrdersCreated),
			strings.Join(row.Vendors, ", "),
			strings.Join(row.Types, ", "),
			row.Reason,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
