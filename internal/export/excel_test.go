package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fitbook/internal/reservation"
)

type staticAudit struct {
	rows []reservation.AuditRow
}

func (a *staticAudit) Append(context.Context, reservation.AuditRow) error { return nil }

func (a *staticAudit) Rows(context.Context) ([]reservation.AuditRow, error) {
	return a.rows, nil
}

func (a *staticAudit) Update(context.Context, int, reservation.AuditRow) error { return nil }

func TestExport(t *testing.T) {
	audit := &staticAudit{rows: []reservation.AuditRow{
		{Date: "2026-03-10", Time: "15:00", MemberID: "12345", MemberName: "홍길동"},
		{Date: "2026-03-11", Time: "16:00", MemberID: "67890", MemberName: "김철수", ChangeHistory: "2026-03-10 16:00 → 2026-03-11 16:00"},
	}}
	exporter := NewExporter(audit, zerolog.New(io.Discard))

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), &buf))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headerColumns, rows[0])
	assert.Equal(t, []string{"2026-03-10", "15:00", "12345", "홍길동"}, rows[1])
	assert.Equal(t, "2026-03-10 16:00 → 2026-03-11 16:00", rows[2][4])
}

func TestExportEmptySheet(t *testing.T) {
	exporter := NewExporter(&staticAudit{}, zerolog.New(io.Discard))

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), &buf))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, headerColumns, rows[0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "예약내역_2026-08.xlsx", Filename(now))
}
