package printing

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func distinctItems(n int) []printing.LineItem {
	items := make([]printing.LineItem, n)
	for i := range items {
		items[i] = printing.LineItem{
			Code:            "9000." + strconv.Itoa(i),
			Description:     "Part " + strconv.Itoa(i),
			Quantity:        decimal.NewFromInt(1),
			CaseQuantity:    decimal.NewFromInt(1),
			UnitWeight:      decimal.NewFromInt(2),
			Value:           decimal.NewFromInt(100),
			CountryOfOrigin: "Germany",
		}
	}
	return items
}

func newTestComposer() *VectorComposer {
	return NewVectorComposer(printing.StandardForm(), printing.DefaultPage())
}

func composeOne(t *testing.T, doc *printing.Document) Page {
	t.Helper()
	pages, err := newTestComposer().Compose(printing.NewSheet(doc))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	return pages[0]
}

func textsBySlot(p Page) map[string]TextOp {
	out := make(map[string]TextOp)
	for _, t := range p.Texts {
		if t.Slot != "" {
			out[t.Slot] = t
		}
	}
	return out
}

func TestVectorComposer_EveryFieldIsDrawn(t *testing.T) {
	doc := testDocument(4)
	sheet := printing.NewSheet(doc)
	slots := textsBySlot(composeOne(t, doc))

	for field, value := range sheet.Values() {
		op, ok := slots[string(field)]
		require.True(t, ok, "field %s has no text run", field)
		assert.Equal(t, value, op.Text, "field %s", field)
	}
}

func TestVectorComposer_EveryBoxCaptioned(t *testing.T) {
	page := composeOne(t, testDocument(0))

	boxes := make(map[int]bool)
	for _, op := range page.Texts {
		if op.Box > 0 {
			boxes[op.Box] = true
			assert.True(t, strings.HasPrefix(op.Text, strconv.Itoa(op.Box)+". "))
		}
	}
	for box := 1; box <= 48; box++ {
		assert.True(t, boxes[box], "box %d", box)
	}
}

func TestVectorComposer_TotalMatchesMarkup(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(strconv.Itoa(n)+" items", func(t *testing.T) {
			doc := testDocument(n)
			sheet := printing.NewSheet(doc)

			total, ok := textsBySlot(composeOne(t, doc))[totalValueSlot]
			require.True(t, ok)
			assert.True(t, total.Bold)
			assert.Equal(t, printing.AlignRight, total.Align)

			markup, err := newTestEngine(t).Populate(sheet)
			require.NoError(t, err)
			root, err := html.Parse(strings.NewReader(markup))
			require.NoError(t, err)
			assert.Equal(t, textOf(byAttr(root, "data-slot", totalValueSlot)), total.Text)
		})
	}
}

func TestVectorComposer_Checkboxes(t *testing.T) {
	doc := testDocument(0)
	page := composeOne(t, doc)

	squares := make(map[printing.CheckboxKey]int)
	for _, r := range page.Rects {
		if r.Checkbox != "" {
			squares[r.Checkbox]++
			assert.Equal(t, printing.BorderAll, r.Border)
		}
	}
	marks := make(map[printing.CheckboxKey]int)
	for _, l := range page.Lines {
		marks[l.Checkbox]++
	}

	for _, pair := range printing.CheckboxPairs {
		for _, key := range []printing.CheckboxKey{pair.First, pair.Second} {
			assert.Equal(t, 1, squares[key], "square for %s", key)
			want := 0
			if doc.Checkboxes[key] {
				want = 2
			}
			assert.Equal(t, want, marks[key], "marks for %s", key)
		}
	}
}

func TestVectorComposer_ConflictingPairDrawnAsGiven(t *testing.T) {
	doc := testDocument(0)
	doc.Checkboxes = printing.CheckboxState{
		printing.CheckInsureYes: true,
		printing.CheckInsureNo:  true,
	}
	page := composeOne(t, doc)

	marks := make(map[printing.CheckboxKey]int)
	for _, l := range page.Lines {
		marks[l.Checkbox]++
	}
	assert.Equal(t, 2, marks[printing.CheckInsureYes])
	assert.Equal(t, 2, marks[printing.CheckInsureNo])
}

func TestVectorComposer_ProductRowsAlignWithHeader(t *testing.T) {
	doc := testDocument(0)
	doc.Items = distinctItems(3)
	page := composeOne(t, doc)

	form := printing.StandardForm()
	placement := form.Place(printing.DefaultPage().LiveArea(), 3)
	require.Len(t, placement.Products, 3)

	header := make(map[int]printing.Rect)
	for _, pc := range placement.Cells {
		if pc.Cell.Box >= 26 && pc.Cell.Box <= 32 {
			header[pc.Cell.Box] = pc.Rect
		}
	}
	for j, col := range form.Products.Columns {
		h, ok := header[col.Box]
		require.True(t, ok, "header cell %d", col.Box)
		for _, row := range placement.Products {
			assert.InDelta(t, h.X, row.Columns[j].X, 1e-9)
			assert.InDelta(t, h.Right(), row.Columns[j].Right(), 1e-9)
		}
	}

	var rowTexts []string
	for _, op := range page.Texts {
		if op.Text == "Part 1" {
			rowTexts = append(rowTexts, op.Text)
		}
	}
	assert.Len(t, rowTexts, 1)
}

func TestVectorComposer_StaysInsideLiveArea(t *testing.T) {
	doc := testDocument(0)
	max := printing.StandardForm().MaxProductRows(printing.DefaultPage().LiveArea().H)
	doc.Items = distinctItems(max)
	page := composeOne(t, doc)

	area := printing.DefaultPage().LiveArea()
	for _, r := range page.Rects {
		assert.GreaterOrEqual(t, r.Rect.X, area.X-1e-9)
		assert.GreaterOrEqual(t, r.Rect.Y, area.Y-1e-9)
		assert.LessOrEqual(t, r.Rect.Right(), area.Right()+1e-9)
		assert.LessOrEqual(t, r.Rect.Bottom(), area.Bottom()+1e-9)
	}
}

func TestVectorComposer_Overflow(t *testing.T) {
	max := printing.StandardForm().MaxProductRows(printing.DefaultPage().LiveArea().H)
	require.Equal(t, 8, max)

	doc := testDocument(0)
	doc.Items = distinctItems(max + 1)

	pages, err := newTestComposer().Compose(printing.NewSheet(doc))
	assert.Nil(t, pages)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeLayoutOverflow, renderErr.Code)
}

func TestVectorComposer_NilSheet(t *testing.T) {
	_, err := newTestComposer().Compose(nil)
	assert.Error(t, err)
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Plain ASCII", "Plain ASCII"},
		{"Müller", "M\xfcller"},
		{"Café", "Caf\xe9"},
		{"Price €5", "Price \x805"},
		{"☒ box", "? box"},
		{"东京", "??"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeText(tt.input))
		})
	}
}

func TestAlignStr(t *testing.T) {
	assert.Equal(t, "L", alignStr(printing.AlignLeft))
	assert.Equal(t, "C", alignStr(printing.AlignCenter))
	assert.Equal(t, "R", alignStr(printing.AlignRight))
	assert.Equal(t, "L", alignStr(""))
}

func TestVectorRenderer_Render(t *testing.T) {
	r := NewVectorRenderer(newTestComposer())

	result, err := r.Render(context.Background(), printing.NewSheet(testDocument(3)))
	require.NoError(t, err)

	assert.Equal(t, ContentTypePDF, result.ContentType)
	assert.Equal(t, "SLI-INV-1001.pdf", result.Filename)
	assert.Equal(t, 1, result.PageCount)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF-")))
}

func TestVectorRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewVectorRenderer(newTestComposer()).Render(ctx, printing.NewSheet(testDocument(1)))
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}

func TestWritePDF_NoPages(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePDF(nil, &buf))
}
