package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"expense-ledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = []store.ExpenseRecord{
	{AmountCents: 1250, Note: "bread, milk", PaymentDate: time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local), AccountName: "groceries"},
	{AmountCents: 4000, Note: "fuel", PaymentDate: time.Date(2025, 3, 2, 18, 0, 0, 0, time.Local), AccountName: "car"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	body := buf.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Account", "Amount", "Note"}, rows[0])
	assert.Equal(t, []string{"2025-03-01 09:30", "groceries", "12.50", "bread, milk"}, rows[1])
	assert.Equal(t, "40.00", rows[2][2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Account", rows[0][1])
	assert.Equal(t, "groceries", rows[1][1])
	assert.Equal(t, "12.5", rows[1][2])
	assert.Equal(t, "Total", rows[3][1])
	assert.Equal(t, "52.5", rows[3][2])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "Expense history", sample))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	buf.Reset()
	require.NoError(t, WriteXLSX(&buf, nil))
	buf.Reset()
	require.NoError(t, WritePDF(&buf, "Empty", nil))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "expenses_20250615.pdf", Filename("pdf", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
}
