package printing

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func testDocument(items int) *printing.Document {
	doc := &printing.Document{
		Source:     printing.SourceTypeStandalone,
		Reference:  "INV-1001",
		ExportDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Exporter: printing.Party{
			Name:    "Acme Tools Inc.",
			Lines:   []string{"100 Main St", "Dayton, OH 45402"},
			Country: "USA",
		},
		Consignee: printing.Party{
			Name:    "Werkzeug GmbH",
			Lines:   []string{"Hafenstrasse 1", "20457 Hamburg"},
			Country: "Germany",
		},
		ForwardingAgent: []string{"Fast Freight LLC", "1 Port Rd", "Newark, NJ 07114", "USA"},
		InBondCode:      "70",
		Instructions:    "Call before delivery",
		Checkboxes: printing.CheckboxState{
			printing.CheckRoutedExportYes: true,
			printing.CheckHazmatNo:        true,
		},
	}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, printing.LineItem{
			Code:            "8471." + strconv.Itoa(i%3),
			Description:     "Widget " + strconv.Itoa(i),
			Quantity:        decimal.NewFromInt(int64(i + 1)),
			CaseQuantity:    decimal.NewFromInt(1),
			UnitWeight:      decimal.NewFromFloat(1.5),
			Value:           decimal.NewFromFloat(1234.25 + float64(i)),
			CountryOfOrigin: "USA",
		})
	}
	return doc
}

func newTestEngine(t *testing.T) *TemplateEngine {
	t.Helper()
	engine, err := NewTemplateEngine(DefaultTemplateSource())
	require.NoError(t, err)
	return engine
}

func parseMarkup(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func byAttr(root *html.Node, key, val string) *html.Node {
	return findNode(root, func(n *html.Node) bool { return attr(n, key) == val })
}

func TestNewTemplateEngine_DefaultTemplate(t *testing.T) {
	engine := newTestEngine(t)

	slots := engine.Slots()
	for _, name := range requiredSlots {
		assert.Contains(t, slots, name)
	}
}

func TestTemplateEngine_TotalRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	for _, n := range []int{1, 4, 9} {
		t.Run(strconv.Itoa(n)+" items", func(t *testing.T) {
			sheet := printing.NewSheet(testDocument(n))

			markup, err := engine.Populate(sheet)
			require.NoError(t, err)

			total := byAttr(parseMarkup(t, markup), "data-slot", totalValueSlot)
			require.NotNil(t, total)

			got, err := decimal.NewFromString(strings.ReplaceAll(textOf(total), ",", ""))
			require.NoError(t, err)
			assert.True(t, sheet.Products.TotalValue().Round(2).Equal(got),
				"total %s != %s", got, sheet.Products.TotalValue())
		})
	}
}

func TestTemplateEngine_ProductRows(t *testing.T) {
	engine := newTestEngine(t)
	sheet := printing.NewSheet(testDocument(5))

	markup, err := engine.Populate(sheet)
	require.NoError(t, err)

	tbody := byAttr(parseMarkup(t, markup), "id", productsAnchorID)
	require.NotNil(t, tbody)

	var rows []*html.Node
	for c := tbody.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			rows = append(rows, c)
		}
	}
	require.Len(t, rows, sheet.Products.Len())

	first := rows[0]
	var cells []string
	for c := first.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			cells = append(cells, textOf(c))
		}
	}
	assert.Equal(t, []string{"D", "8471.0", "5", "3.00", "Widget 0", "USA", "2,471.50"}, cells)
}

func TestTemplateEngine_ZeroRowsStillHasTotal(t *testing.T) {
	engine := newTestEngine(t)

	markup, err := engine.Populate(printing.NewSheet(testDocument(0)))
	require.NoError(t, err)

	root := parseMarkup(t, markup)
	tbody := byAttr(root, "id", productsAnchorID)
	require.NotNil(t, tbody)
	assert.Nil(t, findNode(tbody, func(n *html.Node) bool { return n.Data == "tr" }))

	totalRow := byAttr(root, "data-slot", totalSlot)
	require.NotNil(t, totalRow)
	assert.Equal(t, "tr", totalRow.Data)
	assert.Equal(t, "0.00", textOf(byAttr(root, "data-slot", totalValueSlot)))
}

func TestTemplateEngine_NamedSlots(t *testing.T) {
	engine := newTestEngine(t)

	markup, err := engine.Populate(printing.NewSheet(testDocument(1)))
	require.NoError(t, err)
	root := parseMarkup(t, markup)

	tests := []struct {
		slot     printing.Field
		expected string
	}{
		{printing.FieldForwarderLine1, "Fast Freight LLC"},
		{printing.FieldForwarderLine2, "1 Port Rd"},
		{printing.FieldForwarderLine3, "Newark, NJ 07114"},
		{printing.FieldForwarderLine4, "USA"},
		{printing.FieldConsigneeName, "Werkzeug GmbH"},
		{printing.FieldConsigneeLine3, ""},
		{printing.FieldConsigneeCountry, "Germany"},
		{printing.FieldReference, "INV-1001"},
		{printing.FieldInBondCode, "70"},
		{printing.FieldExportDate, "05/01/2024"},
		{printing.FieldInstructions, "Call before delivery"},
	}

	for _, tt := range tests {
		t.Run(string(tt.slot), func(t *testing.T) {
			node := byAttr(root, "data-slot", string(tt.slot))
			require.NotNil(t, node, "slot %s is rendered", tt.slot)
			assert.Equal(t, tt.expected, textOf(node))
		})
	}
}

func TestTemplateEngine_Checkboxes(t *testing.T) {
	engine := newTestEngine(t)

	markup, err := engine.Populate(printing.NewSheet(testDocument(0)))
	require.NoError(t, err)
	root := parseMarkup(t, markup)

	tests := []struct {
		key   printing.CheckboxKey
		glyph string
	}{
		{printing.CheckRoutedExportYes, printing.GlyphChecked},
		{printing.CheckRoutedExportNo, printing.GlyphUnchecked},
		{printing.CheckHazmatNo, printing.GlyphChecked},
		{printing.CheckInsureYes, printing.GlyphUnchecked},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			node := byAttr(root, "data-checkbox", string(tt.key))
			require.NotNil(t, node)
			assert.True(t, strings.HasPrefix(textOf(node), tt.glyph))
		})
	}
}

func TestTemplateEngine_EveryBoxRendered(t *testing.T) {
	engine := newTestEngine(t)

	markup, err := engine.Populate(printing.NewSheet(testDocument(2)))
	require.NoError(t, err)
	root := parseMarkup(t, markup)

	for box := 1; box <= 48; box++ {
		assert.NotNil(t, byAttr(root, "data-box", strconv.Itoa(box)), "box %d", box)
	}
	assert.NotNil(t, findNode(root, func(n *html.Node) bool {
		return strings.Contains(attr(n, "class"), noPrintClassName)
	}), "preview toolbar is present")
}

func TestTemplateEngine_EscapesData(t *testing.T) {
	engine := newTestEngine(t)
	doc := testDocument(0)
	doc.Consignee.Name = `<script>alert("x")</script>`

	markup, err := engine.Populate(printing.NewSheet(doc))
	require.NoError(t, err)

	assert.NotContains(t, markup, "<script>")
	node := byAttr(parseMarkup(t, markup), "data-slot", string(printing.FieldConsigneeName))
	require.NotNil(t, node)
	assert.Equal(t, doc.Consignee.Name, textOf(node))
}

func TestTemplateEngine_PopulateIsPure(t *testing.T) {
	engine := newTestEngine(t)
	sheet := printing.NewSheet(testDocument(3))

	first, err := engine.Populate(sheet)
	require.NoError(t, err)
	second, err := engine.Populate(sheet)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTemplateEngine_Render(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Render(printing.NewSheet(testDocument(1)))
	require.NoError(t, err)

	assert.Equal(t, ContentTypeHTML, result.ContentType)
	assert.Equal(t, "SLI-INV-1001.html", result.Filename)
	assert.Contains(t, string(result.Data), "SHIPPER&#39;S LETTER OF INSTRUCTION")
}

func TestNewTemplateEngine_Rejects(t *testing.T) {
	const stubSlots = `{{define "title"}}{{end}}{{define "row"}}{{end}}{{define "cell"}}{{end}}`

	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"empty", "  ", ErrCodeInvalidHTML},
		{"unparsable", "{{range}}", ErrCodeInvalidHTML},
		{
			"missing products slot",
			`<div id="sli-sheet"></div>` + stubSlots + `{{define "section"}}{{end}}`,
			ErrCodeTemplateMismatch,
		},
		{
			"products slot without body anchor",
			`<div id="sli-sheet">{{range .Sections}}{{template "section" .}}{{end}}</div>` + stubSlots +
				`{{define "section"}}{{if .Products}}{{template "products" .Products}}{{end}}{{end}}` +
				`{{define "products"}}<table><tbody><tr data-slot="products-total"><td data-slot="products-total-value">{{.Total}}</td></tr></tbody></table>{{end}}`,
			ErrCodeTemplateMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewTemplateEngine(tt.source)
			require.Error(t, err)
			assert.Nil(t, engine)

			var renderErr *RenderError
			require.True(t, errors.As(err, &renderErr))
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

func TestTemplateEngine_PopulateNilSheet(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Populate(nil)
	assert.Error(t, err)
}
