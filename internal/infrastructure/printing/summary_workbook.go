package printing

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheetName = "Products"
	summaryHeaderRow = 3
	moneyFormat      = "#,##0.00"
)

// SummaryWorkbook writes the aggregated product table as a worksheet. Rows,
// column order and the total match the printed form.
type SummaryWorkbook struct {
	table printing.ProductTable
}

// NewSummaryWorkbook creates a workbook writer for the form's product table
func NewSummaryWorkbook(form *printing.Form) *SummaryWorkbook {
	if form == nil {
		form = printing.StandardForm()
	}
	return &SummaryWorkbook{table: form.Products}
}

// Render builds the workbook for sheet
func (w *SummaryWorkbook) Render(sheet *printing.Sheet) (*RenderResult, error) {
	if sheet == nil || sheet.Doc == nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "sheet is nil", nil)
	}
	start := time.Now()

	data, err := w.build(sheet)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to build workbook", err)
	}

	return &RenderResult{
		Data:           data,
		ContentType:    ContentTypeXLSX,
		Filename:       strings.TrimSuffix(sheet.Doc.Filename(), ".pdf") + ".xlsx",
		PageCount:      1,
		RenderDuration: time.Since(start),
	}, nil
}

func (w *SummaryWorkbook) build(sheet *printing.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	cols := w.table.Columns
	if _, err := excelize.ColumnNumberToName(len(cols)); err != nil {
		return nil, fmt.Errorf("summary columns: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"ECECEC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(moneyFormat)})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		CustomNumFmt: strPtr(moneyFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}

	out := &cellWriter{file: f, sheet: summarySheetName}
	n := len(cols)

	// Title and reference
	title := printing.FormTitle
	if ref := sheet.Doc.Reference; ref != "" {
		title += " " + ref
	}
	out.merge(1, 1, n, 1)
	out.value(1, 1, sanitizeCell(title))
	out.style(1, 1, n, 1, titleStyle)

	// Column headers
	for i, col := range cols {
		out.value(i+1, summaryHeaderRow, fmt.Sprintf("%d. %s", col.Box, col.Label))
		out.width(i+1, columnWidth(col))
	}
	out.style(1, summaryHeaderRow, n, summaryHeaderRow, headerStyle)

	// Product rows
	row := summaryHeaderRow + 1
	for _, r := range sheet.Products.Rows() {
		for i, col := range cols {
			switch col.Key {
			case printing.ColumnQuantity:
				out.value(i+1, row, r.Quantity.InexactFloat64())
			case printing.ColumnWeight:
				out.value(i+1, row, r.Weight.InexactFloat64())
				out.style(i+1, row, i+1, row, moneyStyle)
			case printing.ColumnValue:
				out.value(i+1, row, r.Value.Round(2).InexactFloat64())
				out.style(i+1, row, i+1, row, moneyStyle)
			default:
				out.value(i+1, row, sanitizeCell(col.Text(r)))
			}
		}
		row++
	}

	// Total row: label spans every column but the value column
	if n > 2 {
		out.merge(1, row, n-1, row)
	}
	out.value(1, row, w.table.TotalLabel)
	out.value(n, row, sheet.Products.TotalValue().Round(2).InexactFloat64())
	out.style(1, row, n, row, totalStyle)

	if out.err != nil {
		return nil, out.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// cellWriter addresses cells by column and row. It stops at the first
// excelize error and keeps it in err.
type cellWriter struct {
	file  *excelize.File
	sheet string
	err   error
}

func (w *cellWriter) cell(col, row int) string {
	if w.err != nil {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
	}
	return name
}

func (w *cellWriter) value(col, row int, v any) {
	cell := w.cell(col, row)
	if w.err != nil {
		return
	}
	if err := w.file.SetCellValue(w.sheet, cell, v); err != nil {
		w.err = fmt.Errorf("set %s: %w", cell, err)
	}
}

func (w *cellWriter) style(fromCol, fromRow, toCol, toRow, style int) {
	from, to := w.cell(fromCol, fromRow), w.cell(toCol, toRow)
	if w.err != nil {
		return
	}
	if err := w.file.SetCellStyle(w.sheet, from, to, style); err != nil {
		w.err = fmt.Errorf("style %s:%s: %w", from, to, err)
	}
}

func (w *cellWriter) merge(fromCol, fromRow, toCol, toRow int) {
	from, to := w.cell(fromCol, fromRow), w.cell(toCol, toRow)
	if w.err != nil {
		return
	}
	if err := w.file.MergeCell(w.sheet, from, to); err != nil {
		w.err = fmt.Errorf("merge %s:%s: %w", from, to, err)
	}
}

func (w *cellWriter) width(col int, width float64) {
	if w.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		w.err = err
		return
	}
	if err := w.file.SetColWidth(w.sheet, name, name, width); err != nil {
		w.err = fmt.Errorf("width %s: %w", name, err)
	}
}

func columnWidth(col printing.Column) float64 {
	switch col.Key {
	case printing.ColumnDescription:
		return 40
	case printing.ColumnFlag:
		return 6
	default:
		return 14
	}
}

// sanitizeCell stops spreadsheet apps from treating data as a formula
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func strPtr(s string) *string {
	return &s
}
