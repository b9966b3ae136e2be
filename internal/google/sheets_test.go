package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	raw := []interface{}{"2026-03-10", "15:00", "12345", "홍길동"}

	assert.Equal(t, "2026-03-10", cell(raw, 0))
	assert.Equal(t, "홍길동", cell(raw, 3))

	// Short rows and non-string cells read as empty.
	assert.Equal(t, "", cell(raw, 4))
	assert.Equal(t, "", cell([]interface{}{42}, 0))
	assert.Equal(t, "", cell(nil, 0))
}

func TestNewSheetsAuditDefaultsSheetName(t *testing.T) {
	a := NewSheetsAudit(nil, "sheet-id", "")
	assert.Equal(t, "reservations", a.sheetName)

	a = NewSheetsAudit(nil, "sheet-id", "audit")
	assert.Equal(t, "audit", a.sheetName)
}
