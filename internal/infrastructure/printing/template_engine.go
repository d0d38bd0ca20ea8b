package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/orderportal/backend/internal/domain/printing"
	"golang.org/x/net/html"
)

// Slot names every SLI template must define
var requiredSlots = []string{"title", "section", "row", "cell", "products"}

// Anchors the executed template must contain
const (
	productsAnchorID  = "sli-products"
	totalSlot         = "products-total"
	totalValueSlot    = "products-total-value"
	rootTemplateName  = "sli"
	sheetElementID    = "sli-sheet"
	noPrintClassName  = "no-print"
	maxTemplateLength = 1 << 20
)

// TemplateEngine is the markup renderer. The template resource is parsed once
// into a table of named slots; populating it is a pure function of the sheet.
type TemplateEngine struct {
	tmpl     *template.Template
	form     *printing.Form
	geometry printing.PageGeometry
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithForm overrides the layout the template is driven by
func WithForm(form *printing.Form) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.form = form
	}
}

// WithGeometry overrides the page geometry
func WithGeometry(g printing.PageGeometry) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.geometry = g
	}
}

// NewTemplateEngine parses source and verifies that it declares every slot and
// still emits the product anchors. A template that fails the check is
// rejected here rather than producing a form with misplaced data.
func NewTemplateEngine(source string, opts ...TemplateEngineOption) (*TemplateEngine, error) {
	if strings.TrimSpace(source) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	if len(source) > maxTemplateLength {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is too large", nil)
	}

	e := &TemplateEngine{
		form:     printing.StandardForm(),
		geometry: printing.DefaultPage(),
	}
	for _, opt := range opts {
		opt(e)
	}

	tmpl, err := template.New(rootTemplateName).Funcs(template.FuncMap{
		"width":  widthStyle,
		"height": heightStyle,
		"sheet":  sheetStyle,
	}).Parse(source)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	e.tmpl = tmpl

	if missing := e.missingSlots(); len(missing) > 0 {
		return nil, NewRenderError(ErrCodeTemplateMismatch,
			"template does not define slots: "+strings.Join(missing, ", "), nil)
	}

	skeleton, err := e.Populate(printing.NewSheet(&printing.Document{}))
	if err != nil {
		return nil, err
	}
	if err := checkAnchors(skeleton); err != nil {
		return nil, err
	}

	return e, nil
}

// Slots lists the named templates parsed from the resource
func (e *TemplateEngine) Slots() []string {
	out := make([]string, 0, len(e.tmpl.Templates()))
	for _, t := range e.tmpl.Templates() {
		out = append(out, t.Name())
	}
	return out
}

func (e *TemplateEngine) missingSlots() []string {
	var missing []string
	for _, name := range requiredSlots {
		if e.tmpl.Lookup(name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Populate renders the form for sheet and returns a new markup document
func (e *TemplateEngine) Populate(sheet *printing.Sheet) (string, error) {
	if sheet == nil || sheet.Doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "sheet is nil", nil)
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, rootTemplateName, e.view(sheet)); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// Render populates the template and wraps the markup as a result
func (e *TemplateEngine) Render(sheet *printing.Sheet) (*RenderResult, error) {
	start := time.Now()
	markup, err := e.Populate(sheet)
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Data:           []byte(markup),
		ContentType:    ContentTypeHTML,
		Filename:       strings.TrimSuffix(sheet.Doc.Filename(), ".pdf") + ".html",
		RenderDuration: time.Since(start),
	}, nil
}

// =============================================================================
// View model
// =============================================================================

type markupView struct {
	Title       string
	TitleHeight float64
	Reference   string
	Geometry    printing.PageGeometry
	Sections    []sectionView
}

type sectionView struct {
	Name     string
	Rows     []rowView
	Products *productsView
}

type rowView struct {
	Height float64
	Cells  []cellView
}

type cellView struct {
	Box      int
	Caption  string
	Width    float64
	Classes  string
	Slot     string
	Checkbox string
	Glyph    string
	Text     string
	Rows     []rowView
}

type productsView struct {
	Columns    []columnView
	Rows       []productRowView
	RowHeight  float64
	LabelSpan  int
	TotalLabel string
	Total      string
}

type columnView struct {
	Width float64
}

type productRowView struct {
	Cells []productCellView
}

type productCellView struct {
	Text  string
	Align printing.Align
}

func (e *TemplateEngine) view(sheet *printing.Sheet) markupView {
	v := markupView{
		Title:       e.form.Title,
		TitleHeight: e.form.TitleHeight,
		Reference:   sheet.Doc.Reference,
		Geometry:    e.geometry,
		Sections:    make([]sectionView, 0, len(e.form.Sections)),
	}
	for _, s := range e.form.Sections {
		sv := sectionView{Name: s.Name, Rows: e.rows(s.Rows, sheet)}
		if s.Products {
			sv.Products = e.products(sheet)
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}

func (e *TemplateEngine) rows(rows []printing.Row, sheet *printing.Sheet) []rowView {
	out := make([]rowView, 0, len(rows))
	for _, r := range rows {
		rv := rowView{Height: r.Height, Cells: make([]cellView, 0, len(r.Cells))}
		for _, c := range r.Cells {
			rv.Cells = append(rv.Cells, e.cell(c, sheet))
		}
		out = append(out, rv)
	}
	return out
}

func (e *TemplateEngine) cell(c printing.Cell, sheet *printing.Sheet) cellView {
	cv := cellView{
		Box:     c.Box,
		Caption: caption(c),
		Width:   c.Width,
		Classes: cellClasses(c),
	}
	if c.IsContainer() {
		cv.Rows = e.rows(c.Nested, sheet)
		return cv
	}

	switch c.Content.Kind {
	case printing.ContentField:
		cv.Slot = string(c.Content.Field)
		cv.Text = sheet.Value(c.Content.Field)
	case printing.ContentCheckbox:
		cv.Checkbox = string(c.Content.Checkbox)
		cv.Glyph = sheet.Glyph(c.Content.Checkbox).Markup()
		cv.Text = c.Content.Text
	case printing.ContentLiteral:
		cv.Text = c.Content.Text
	}
	return cv
}

func (e *TemplateEngine) products(sheet *printing.Sheet) *productsView {
	table := e.form.Products
	pv := &productsView{
		RowHeight:  table.RowHeight,
		LabelSpan:  len(table.Columns) - 1,
		TotalLabel: table.TotalLabel,
		Total:      printing.FormatMoney(sheet.Products.TotalValue()),
	}
	for _, col := range table.Columns {
		pv.Columns = append(pv.Columns, columnView{Width: col.Width})
	}
	for _, row := range sheet.Products.Rows() {
		prv := productRowView{Cells: make([]productCellView, 0, len(table.Columns))}
		for _, col := range table.Columns {
			prv.Cells = append(prv.Cells, productCellView{Text: col.Text(row), Align: col.Align})
		}
		pv.Rows = append(pv.Rows, prv)
	}
	return pv
}

// caption is the small label printed in a cell's top-left corner
func caption(c printing.Cell) string {
	if c.Box > 0 {
		return strconv.Itoa(c.Box) + ". " + c.Label
	}
	return c.Label
}

func cellClasses(c printing.Cell) string {
	classes := []string{"cell"}
	if c.IsContainer() {
		classes = append(classes, "container")
	}
	for _, edge := range []struct {
		border printing.Border
		class  string
	}{
		{printing.BorderTop, "b-t"},
		{printing.BorderRight, "b-r"},
		{printing.BorderBottom, "b-b"},
		{printing.BorderLeft, "b-l"},
	} {
		if c.Border.Has(edge.border) {
			classes = append(classes, edge.class)
		}
	}
	if c.Shaded {
		classes = append(classes, "shaded")
	}
	if c.Wrap {
		classes = append(classes, "wrap")
	}
	align := c.Align
	if align == "" {
		align = printing.AlignLeft
	}
	return strings.Join(append(classes, "align-"+string(align)), " ")
}

// =============================================================================
// Template functions
// =============================================================================

func widthStyle(pct float64) template.CSS {
	return template.CSS(fmt.Sprintf("width:%.4f%%", pct))
}

func heightStyle(pt float64) template.CSS {
	return template.CSS(fmt.Sprintf("height:%.2fpt", pt))
}

// sheetStyle sizes the sheet to the live area and pads it by the margins so
// the sheet plus padding is exactly one page wide.
func sheetStyle(g printing.PageGeometry) template.CSS {
	area := g.LiveArea()
	return template.CSS(fmt.Sprintf("width:%.2fpt;padding:%.2fpt %.2fpt %.2fpt %.2fpt",
		area.W, g.Margins.Top, g.Margins.Right, g.Margins.Bottom, g.Margins.Left))
}

// =============================================================================
// Structural check
// =============================================================================

// checkAnchors confirms that product rows and the total row have a home
func checkAnchors(markup string) error {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return NewRenderError(ErrCodeInvalidHTML, "template output is not valid HTML", err)
	}

	required := map[string]func(*html.Node) bool{
		"#" + productsAnchorID: func(n *html.Node) bool { return n.Data == "tbody" && attr(n, "id") == productsAnchorID },
		"#" + sheetElementID:   func(n *html.Node) bool { return attr(n, "id") == sheetElementID },
		totalSlot:              func(n *html.Node) bool { return attr(n, "data-slot") == totalSlot },
		totalValueSlot:         func(n *html.Node) bool { return attr(n, "data-slot") == totalValueSlot },
	}
	for name, match := range required {
		if findNode(doc, match) == nil {
			return NewRenderError(ErrCodeTemplateMismatch, "template output is missing anchor "+name, nil)
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}
