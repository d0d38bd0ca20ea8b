package printing

import (
	"fmt"
	"math"
)

// widthTolerance absorbs float error in hand-written percentage constants
const widthTolerance = 0.01

// Border is a bit set of the cell edges that are stroked
type Border uint8

const (
	BorderTop Border = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	BorderNone Border = 0
	BorderAll         = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Has reports whether every edge in e is set
func (b Border) Has(e Border) bool {
	return b&e == e
}

// Without returns b with the edges in e cleared
func (b Border) Without(e Border) Border {
	return b &^ e
}

// ContentKind says where a cell's printed content comes from
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentLiteral
	ContentField
	ContentCheckbox
)

// Content is the source of a cell's text
type Content struct {
	Kind     ContentKind
	Text     string // literal text, or the caption printed beside a checkbox
	Field    Field
	Checkbox CheckboxKey
}

// Literal is static text printed as-is
func Literal(text string) Content {
	return Content{Kind: ContentLiteral, Text: text}
}

// Bound prints the value of a document field
func Bound(f Field) Content {
	return Content{Kind: ContentField, Field: f}
}

// Check prints a checkbox glyph followed by a caption
func Check(key CheckboxKey, caption string) Content {
	return Content{Kind: ContentCheckbox, Checkbox: key, Text: caption}
}

// Cell is one rectangle of the form grid.
// Width is a percentage of the enclosing container. A cell with Nested rows
// is a container: its rows subdivide it and its own Content is not printed.
type Cell struct {
	Box     int
	Label   string
	Width   float64
	Border  Border
	Shaded  bool
	Wrap    bool
	Content Content
	Align   Align
	Nested  []Row
}

// IsContainer reports whether the cell holds a nested sub-layout
func (c Cell) IsContainer() bool {
	return len(c.Nested) > 0
}

// Row is a horizontal strip of cells with a fixed height in points
type Row struct {
	Height float64
	Cells  []Cell
}

// NewRow builds a row after checking its geometry: sibling widths must sum
// to 100 and the nested rows of every container must fill the row height.
func NewRow(height float64, cells ...Cell) (Row, error) {
	if height <= 0 {
		return Row{}, fmt.Errorf("row height must be positive, got %v", height)
	}
	if len(cells) == 0 {
		return Row{}, fmt.Errorf("row has no cells")
	}

	var sum float64
	for _, c := range cells {
		if c.Width <= 0 {
			return Row{}, fmt.Errorf("cell %q has non-positive width %v", c.Label, c.Width)
		}
		sum += c.Width
		if !c.IsContainer() {
			continue
		}
		var nested float64
		for _, r := range c.Nested {
			nested += r.Height
		}
		if math.Abs(nested-height) > widthTolerance {
			return Row{}, fmt.Errorf("cell %q nests %vpt of rows in a %vpt row", c.Label, nested, height)
		}
	}
	if math.Abs(sum-100) > widthTolerance {
		return Row{}, fmt.Errorf("cell widths sum to %v%%, want 100%%", sum)
	}

	return Row{Height: height, Cells: cells}, nil
}

// mustRow panics on a malformed row; the form is static so a bad width is
// an authoring error that must surface at package init.
func mustRow(height float64, cells ...Cell) Row {
	r, err := NewRow(height, cells...)
	if err != nil {
		panic("printing: " + err.Error())
	}
	return r
}

// Section is a named band of the form
type Section struct {
	Name string
	Rows []Row
	// Products marks the section after which product rows are drawn
	Products bool
}

// Height is the sum of the section's row heights
func (s Section) Height() float64 {
	var h float64
	for _, r := range s.Rows {
		h += r.Height
	}
	return h
}

// PlacedCell is a cell resolved to absolute page coordinates
type PlacedCell struct {
	Cell    Cell
	Rect    Rect
	Section int
	Depth   int
}

// PlacedRow is one product row resolved to absolute column rectangles
type PlacedRow struct {
	Y       float64
	Height  float64
	Columns []Rect
}

// Placement is the full form laid out for a given number of product rows
type Placement struct {
	Title    Rect
	Cells    []PlacedCell
	Products []PlacedRow
	Total    PlacedRow
	Bottom   float64
}

// Place lays the form out inside area for productRows data rows.
// Coordinates are absolute; nothing is clipped, so Bottom may exceed the area.
func (f *Form) Place(area Rect, productRows int) Placement {
	p := Placement{
		Title: Rect{X: area.X, Y: area.Y, W: area.W, H: f.TitleHeight},
	}
	y := area.Y + f.TitleHeight

	for i, s := range f.Sections {
		y = placeRows(s.Rows, area.X, y, area.W, i, 0, &p.Cells)
		if !s.Products {
			continue
		}
		for n := 0; n < productRows; n++ {
			p.Products = append(p.Products, f.Products.placeRow(area.X, y, area.W))
			y += f.Products.RowHeight
		}
		p.Total = f.Products.placeTotal(area.X, y, area.W)
		y += f.Products.RowHeight
	}

	p.Bottom = y
	return p
}

// placeRows appends every cell of rows, recursing into containers, and
// returns the y coordinate below the last row.
func placeRows(rows []Row, x, y, w float64, section, depth int, out *[]PlacedCell) float64 {
	for _, r := range rows {
		for i, rect := range splitWidths(x, y, w, r.Height, cellWidths(r.Cells)) {
			c := r.Cells[i]
			*out = append(*out, PlacedCell{Cell: c, Rect: rect, Section: section, Depth: depth})
			if c.IsContainer() {
				placeRows(c.Nested, rect.X, rect.Y, rect.W, section, depth+1, out)
			}
		}
		y += r.Height
	}
	return y
}

func cellWidths(cells []Cell) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.Width
	}
	return out
}

// splitWidths divides a strip by percentages. Edges are computed from the
// running percentage so that equal cumulative sums land on the same x in
// every row, and the last edge is pinned to the container's right edge.
func splitWidths(x, y, w, h float64, widths []float64) []Rect {
	out := make([]Rect, len(widths))
	var acc float64
	left := x
	for i, pct := range widths {
		acc += pct
		right := x + w*acc/100
		if i == len(widths)-1 {
			right = x + w
		}
		out[i] = Rect{X: left, Y: y, W: right - left, H: h}
		left = right
	}
	return out
}
