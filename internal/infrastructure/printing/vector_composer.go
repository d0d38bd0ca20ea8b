package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/orderportal/backend/internal/domain/printing"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Type sizes in points
const (
	titleSize   = 11.0
	captionSize = 5.0
	valueSize   = 7.5
	lineWidth   = 0.5
	checkSize   = 6.0
	cellPadding = 2.0
	captionBand = 7.0
)

var shadeRGB = [3]int{236, 236, 236}

// RectOp is a cell rectangle. Only the edges in Border are stroked.
type RectOp struct {
	Rect     printing.Rect
	Border   printing.Border
	Fill     bool
	Checkbox printing.CheckboxKey
}

// LineOp is a straight segment; checkbox marks are drawn as two of these
type LineOp struct {
	X1, Y1   float64
	X2, Y2   float64
	Checkbox printing.CheckboxKey
}

// TextOp is a run of text fitted into Rect
type TextOp struct {
	Rect  printing.Rect
	Text  string
	Size  float64
	Bold  bool
	Align printing.Align
	Wrap  bool
	// Slot names the bound value the run prints, if any
	Slot string
	Box  int
}

// Page is one physical page of drawing primitives in top-left origin points
type Page struct {
	Width  float64
	Height float64
	Rects  []RectOp
	Lines  []LineOp
	Texts  []TextOp
}

// VectorComposer draws the form as primitives on a single page
type VectorComposer struct {
	form     *printing.Form
	geometry printing.PageGeometry
}

// NewVectorComposer creates a composer for form on the given page
func NewVectorComposer(form *printing.Form, geometry printing.PageGeometry) *VectorComposer {
	if form == nil {
		form = printing.StandardForm()
	}
	return &VectorComposer{form: form, geometry: geometry}
}

// Compose lays out the sheet. A product table that does not fit on the
// page is rejected with LAYOUT_OVERFLOW; there is no continuation page.
func (c *VectorComposer) Compose(sheet *printing.Sheet) ([]Page, error) {
	if sheet == nil || sheet.Doc == nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "sheet is nil", nil)
	}

	area := c.geometry.LiveArea()
	rows := sheet.Products.Len()
	if limit := c.form.MaxProductRows(area.H); rows > limit {
		return nil, NewRenderError(ErrCodeLayoutOverflow,
			fmt.Sprintf("%d product rows exceed the %d that fit on one page", rows, limit), nil)
	}

	placement := c.form.Place(area, rows)
	p := Page{Width: c.geometry.Width, Height: c.geometry.Height}

	p.Texts = append(p.Texts, TextOp{
		Rect:  placement.Title,
		Text:  c.form.Title,
		Size:  titleSize,
		Bold:  true,
		Align: printing.AlignCenter,
	})

	for _, pc := range placement.Cells {
		c.composeCell(&p, pc, sheet)
	}
	c.composeProducts(&p, placement, sheet)

	return []Page{p}, nil
}

func (c *VectorComposer) composeCell(p *Page, pc printing.PlacedCell, sheet *printing.Sheet) {
	cell, r := pc.Cell, pc.Rect
	p.Rects = append(p.Rects, RectOp{Rect: r, Border: cell.Border, Fill: cell.Shaded})

	top := r.Y
	if label := caption(cell); label != "" {
		p.Texts = append(p.Texts, TextOp{
			Rect: printing.Rect{X: r.X + cellPadding, Y: r.Y + 1, W: r.W - 2*cellPadding, H: captionSize + 1},
			Text: label,
			Size: captionSize,
			Box:  cell.Box,
		})
		top = r.Y + captionBand
	}
	if cell.IsContainer() {
		return
	}

	var body printing.Rect
	if cell.Wrap {
		body = printing.Rect{X: r.X + cellPadding, Y: top, W: r.W - 2*cellPadding, H: r.Bottom() - top - 1}
	} else {
		h := valueSize + 1.5
		body = printing.Rect{X: r.X + cellPadding, Y: r.Bottom() - h, W: r.W - 2*cellPadding, H: h}
	}

	align := cell.Align
	if align == "" {
		align = printing.AlignLeft
	}

	switch cell.Content.Kind {
	case printing.ContentField:
		p.Texts = append(p.Texts, TextOp{
			Rect:  body,
			Text:  sheet.Value(cell.Content.Field),
			Size:  valueSize,
			Align: align,
			Wrap:  cell.Wrap,
			Slot:  string(cell.Content.Field),
		})
	case printing.ContentLiteral:
		p.Texts = append(p.Texts, TextOp{Rect: body, Text: cell.Content.Text, Size: valueSize, Align: align, Wrap: cell.Wrap})
	case printing.ContentCheckbox:
		c.composeCheckbox(p, body, cell.Content, sheet.Glyph(cell.Content.Checkbox))
	}
}

// composeCheckbox draws a square, an X when checked, and the caption beside it
func (c *VectorComposer) composeCheckbox(p *Page, body printing.Rect, content printing.Content, glyph printing.Glyph) {
	box := printing.Rect{X: body.X, Y: body.Y + (body.H-checkSize)/2, W: checkSize, H: checkSize}
	p.Rects = append(p.Rects, RectOp{Rect: box, Border: printing.BorderAll, Checkbox: content.Checkbox})
	if glyph.Checked {
		p.Lines = append(p.Lines,
			LineOp{X1: box.X, Y1: box.Y, X2: box.Right(), Y2: box.Bottom(), Checkbox: content.Checkbox},
			LineOp{X1: box.X, Y1: box.Bottom(), X2: box.Right(), Y2: box.Y, Checkbox: content.Checkbox},
		)
	}
	if content.Text != "" {
		p.Texts = append(p.Texts, TextOp{
			Rect:  printing.Rect{X: box.Right() + cellPadding, Y: body.Y, W: body.Right() - box.Right() - cellPadding, H: body.H},
			Text:  content.Text,
			Size:  valueSize,
			Align: printing.AlignLeft,
		})
	}
}

func (c *VectorComposer) composeProducts(p *Page, placement printing.Placement, sheet *printing.Sheet) {
	table := c.form.Products
	for i, row := range sheet.Products.Rows() {
		for j, col := range table.Columns {
			r := placement.Products[i].Columns[j]
			p.Rects = append(p.Rects, RectOp{Rect: r, Border: printing.BorderAll})
			p.Texts = append(p.Texts, TextOp{
				Rect:  inset(r),
				Text:  col.Text(row),
				Size:  valueSize,
				Align: col.Align,
			})
		}
	}

	label, value := placement.Total.Columns[0], placement.Total.Columns[1]
	p.Rects = append(p.Rects,
		RectOp{Rect: label, Border: printing.BorderAll},
		RectOp{Rect: value, Border: printing.BorderAll},
	)
	p.Texts = append(p.Texts,
		TextOp{Rect: inset(label), Text: table.TotalLabel, Size: valueSize, Bold: true, Align: printing.AlignRight, Slot: totalSlot},
		TextOp{
			Rect:  inset(value),
			Text:  printing.FormatMoney(sheet.Products.TotalValue()),
			Size:  valueSize,
			Bold:  true,
			Align: printing.AlignRight,
			Slot:  totalValueSlot,
		},
	)
}

func inset(r printing.Rect) printing.Rect {
	return printing.Rect{X: r.X + cellPadding, Y: r.Y, W: r.W - 2*cellPadding, H: r.H}
}

// =============================================================================
// PDF output
// =============================================================================

// WritePDF draws pages with the core Helvetica font
func WritePDF(pages []Page, w io.Writer) error {
	if len(pages) == 0 {
		return NewRenderError(ErrCodeRenderFailed, "no pages to write", nil)
	}

	pdf := newPDF(printing.PageGeometry{Width: pages[0].Width, Height: pages[0].Height})
	pdf.SetLineWidth(lineWidth)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(shadeRGB[0], shadeRGB[1], shadeRGB[2])

	for _, p := range pages {
		pdf.AddPage()
		for _, r := range p.Rects {
			drawRect(pdf, r)
		}
		for _, l := range p.Lines {
			pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
		}
		for _, t := range p.Texts {
			drawText(pdf, t)
		}
	}

	if err := pdf.Output(w); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}
	return nil
}

func drawRect(pdf *fpdf.Fpdf, op RectOp) {
	r := op.Rect
	if op.Fill {
		pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	}
	if op.Border.Has(printing.BorderTop) {
		pdf.Line(r.X, r.Y, r.Right(), r.Y)
	}
	if op.Border.Has(printing.BorderRight) {
		pdf.Line(r.Right(), r.Y, r.Right(), r.Bottom())
	}
	if op.Border.Has(printing.BorderBottom) {
		pdf.Line(r.X, r.Bottom(), r.Right(), r.Bottom())
	}
	if op.Border.Has(printing.BorderLeft) {
		pdf.Line(r.X, r.Y, r.X, r.Bottom())
	}
}

func drawText(pdf *fpdf.Fpdf, op TextOp) {
	text := encodeText(op.Text)
	if text == "" || op.Rect.W <= 0 || op.Rect.H <= 0 {
		return
	}

	style := ""
	if op.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, op.Size)
	align := alignStr(op.Align)

	if !op.Wrap {
		pdf.SetXY(op.Rect.X, op.Rect.Y)
		pdf.CellFormat(op.Rect.W, op.Rect.H, fitText(pdf, text, op.Rect.W), "", 0, align+"M", false, 0, "")
		return
	}

	lineH := op.Size * 1.15
	y := op.Rect.Y
	for _, line := range pdf.SplitText(text, op.Rect.W) {
		if y+lineH > op.Rect.Bottom()+0.01 {
			break
		}
		pdf.SetXY(op.Rect.X, y)
		pdf.CellFormat(op.Rect.W, lineH, line, "", 0, align+"T", false, 0, "")
		y += lineH
	}
}

// fitText clips a single line to the width available
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	for len(s) > 0 && pdf.GetStringWidth(s) > w {
		s = s[:len(s)-1]
	}
	return s
}

func alignStr(a printing.Align) string {
	switch a {
	case printing.AlignCenter:
		return "C"
	case printing.AlignRight:
		return "R"
	default:
		return "L"
	}
}

// encodeText converts to the single-byte encoding of the core fonts.
// Text is composed first so decomposed accents still map; runes with no
// cp1252 form print as '?'.
func encodeText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// VectorRenderer produces a single-page PDF directly from primitives
type VectorRenderer struct {
	composer *VectorComposer
}

// NewVectorRenderer creates a vector renderer
func NewVectorRenderer(composer *VectorComposer) *VectorRenderer {
	return &VectorRenderer{composer: composer}
}

// Render composes and writes the sheet
func (r *VectorRenderer) Render(ctx context.Context, sheet *printing.Sheet) (*RenderResult, error) {
	start := time.Now()

	pages, err := r.composer.Compose(sheet)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "render was cancelled", err)
	}

	var buf bytes.Buffer
	if err := WritePDF(pages, &buf); err != nil {
		return nil, err
	}

	return &RenderResult{
		Data:           buf.Bytes(),
		ContentType:    ContentTypePDF,
		Filename:       sheet.Doc.Filename(),
		PageCount:      len(pages),
		RenderDuration: time.Since(start),
	}, nil
}
