package printing

import (
	"bytes"
	"testing"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readSummaryRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestSummaryWorkbook_Render(t *testing.T) {
	sheet := printing.NewSheet(testDocument(5))

	result, err := NewSummaryWorkbook(nil).Render(sheet)
	require.NoError(t, err)

	assert.Equal(t, ContentTypeXLSX, result.ContentType)
	assert.Equal(t, "SLI-INV-1001.xlsx", result.Filename)

	rows := readSummaryRows(t, result.Data)
	require.Len(t, rows, summaryHeaderRow+sheet.Products.Len()+1)

	assert.Equal(t, printing.FormTitle+" INV-1001", rows[0][0])

	header := rows[summaryHeaderRow-1]
	require.Len(t, header, 7)
	assert.Equal(t, "26. D/F", header[0])

	first := rows[summaryHeaderRow]
	assert.Equal(t, "D", first[0])
	assert.Equal(t, "8471.0", first[1])
	assert.Equal(t, "Widget 0", first[4])

	last := rows[len(rows)-1]
	assert.Equal(t, printing.StandardForm().Products.TotalLabel, last[0])
	total, err := decimal.NewFromString(last[len(last)-1])
	require.NoError(t, err)
	assert.True(t, sheet.Products.TotalValue().Round(2).Equal(total))
}

func TestSummaryWorkbook_NoProducts(t *testing.T) {
	result, err := NewSummaryWorkbook(nil).Render(printing.NewSheet(testDocument(0)))
	require.NoError(t, err)

	rows := readSummaryRows(t, result.Data)
	require.Len(t, rows, summaryHeaderRow+1)
	last := rows[len(rows)-1]
	assert.Equal(t, "0", last[len(last)-1])
}

func TestSummaryWorkbook_NilSheet(t *testing.T) {
	_, err := NewSummaryWorkbook(nil).Render(nil)
	assert.Error(t, err)
}

func TestSanitizeCell(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Widget", "Widget"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeCell(tt.input))
	}
}

func TestCellWriter_KeepsFirstError(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *cellWriter)
	}{
		{"row zero", func(w *cellWriter) { w.value(1, 0, "x") }},
		{"column zero width", func(w *cellWriter) { w.width(0, 10) }},
		{"width over limit", func(w *cellWriter) { w.width(1, excelize.MaxColumnWidth+1) }},
		{"missing sheet", func(w *cellWriter) {
			w.sheet = "Nope"
			w.value(1, 1, "x")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			defer f.Close()

			w := &cellWriter{file: f, sheet: f.GetSheetName(0)}
			tt.write(w)
			require.Error(t, w.err)

			first := w.err
			w.sheet = f.GetSheetName(0)
			w.value(1, 1, "after")
			w.style(1, 1, 2, 1, 0)
			w.merge(1, 1, 2, 1)
			assert.Same(t, first, w.err)

			got, err := f.GetCellValue(f.GetSheetName(0), "A1")
			require.NoError(t, err)
			assert.Empty(t, got, "writes after an error are skipped")
		})
	}
}

func TestCellWriter_Writes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	w := &cellWriter{file: f, sheet: sheet}
	w.merge(1, 1, 3, 1)
	w.value(1, 1, "title")
	w.value(2, 4, 12.5)
	w.width(2, 30)
	require.NoError(t, w.err)

	got, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "title", got)

	got, err = f.GetCellValue(sheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "12.5", got)

	width, err := f.GetColWidth(sheet, "B")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)

	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "C1", merged[0].GetEndAxis())
}
