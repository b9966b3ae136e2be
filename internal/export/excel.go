// Package export renders the reservation audit sheet as an Excel
// workbook for the admin to download.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"fitbook/internal/reservation"
)

const sheetName = "예약내역"

var headerColumns = []string{"날짜", "시간", "회원번호", "회원명", "변경이력"}

// Exporter reads audit rows and writes workbooks.
type Exporter struct {
	audit  reservation.AuditLog
	logger zerolog.Logger
}

// NewExporter creates an exporter over the audit log.
func NewExporter(audit reservation.AuditLog, logger zerolog.Logger) *Exporter {
	return &Exporter{
		audit:  audit,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// Export writes the full audit sheet as an .xlsx workbook to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	rows, err := e.audit.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read audit rows: %w", err)
	}

	file, err := buildWorkbook(rows)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	e.logger.Info().Int("rows", len(rows)).Msg("reservation export generated")
	return nil
}

// Filename returns a download name like 예약내역_2026-08.xlsx.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", sheetName, now.Format("2006-01"))
}

func buildWorkbook(rows []reservation.AuditRow) (*excelize.File, error) {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", sheetName)

	for i, col := range headerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
	}

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(headerColumns), 1)
		_ = file.SetCellStyle(sheetName, startCell, endCell, style)
	}

	for r, row := range rows {
		values := []interface{}{row.Date, row.Time, row.MemberID, row.MemberName, row.ChangeHistory}
		for c, val := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheetName, cell, val); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}
