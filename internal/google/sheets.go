package google

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"

	"fitbook/internal/reservation"
)

// SheetsAudit implements reservation.AuditLog on a Google spreadsheet.
// Rows live on one sheet, columns A-E:
// date, time, member id, member name, change history.
type SheetsAudit struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsAudit wraps an authenticated sheets service.
func NewSheetsAudit(svc *sheets.Service, spreadsheetID, sheetName string) *SheetsAudit {
	if sheetName == "" {
		sheetName = "reservations"
	}
	return &SheetsAudit{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// Append adds one row at the bottom of the sheet.
func (a *SheetsAudit) Append(ctx context.Context, row reservation.AuditRow) error {
	rng := fmt.Sprintf("%s!A:D", a.sheetName)
	values := &sheets.ValueRange{
		Values: [][]interface{}{{row.Date, row.Time, row.MemberID, row.MemberName}},
	}
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append audit row: %w", err)
	}
	return nil
}

// Rows returns every row of the sheet in order.
func (a *SheetsAudit) Rows(ctx context.Context) ([]reservation.AuditRow, error) {
	rng := fmt.Sprintf("%s!A:E", a.sheetName)
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read audit rows: %w", err)
	}

	rows := make([]reservation.AuditRow, 0, len(resp.Values))
	for _, raw := range resp.Values {
		rows = append(rows, reservation.AuditRow{
			Date:          cell(raw, 0),
			Time:          cell(raw, 1),
			MemberID:      cell(raw, 2),
			MemberName:    cell(raw, 3),
			ChangeHistory: cell(raw, 4),
		})
	}
	return rows, nil
}

// Update replaces the row at the zero-based index in place.
func (a *SheetsAudit) Update(ctx context.Context, index int, row reservation.AuditRow) error {
	rng := fmt.Sprintf("%s!A%d:E%d", a.sheetName, index+1, index+1)
	values := &sheets.ValueRange{
		Values: [][]interface{}{{row.Date, row.Time, row.MemberID, row.MemberName, row.ChangeHistory}},
	}
	_, err := a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update audit row %d: %w", index, err)
	}
	return nil
}

func cell(raw []interface{}, i int) string {
	if i >= len(raw) {
		return ""
	}
	s, _ := raw[i].(string)
	return s
}
