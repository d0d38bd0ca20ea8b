package printing

import "fmt"

const (
	FormTitle = "SHIPPER'S LETTER OF INSTRUCTION"

	titleHeight      = 18.0
	lineHeight       = 9.0
	checkRowHeight   = 12.0
	productRowHeight = 12.0
)

// ColumnKey identifies a product table column
type ColumnKey string

const (
	ColumnFlag        ColumnKey = "flag"
	ColumnCode        ColumnKey = "code"
	ColumnQuantity    ColumnKey = "quantity"
	ColumnWeight      ColumnKey = "weight"
	ColumnDescription ColumnKey = "description"
	ColumnOrigin      ColumnKey = "origin"
	ColumnValue       ColumnKey = "value"
)

// Column is one product table column
type Column struct {
	Key   ColumnKey
	Box   int
	Label string
	Width float64
	Align Align
}

// Text returns the printed value of the column for row
func (c Column) Text(row AggregatedRow) string {
	switch c.Key {
	case ColumnFlag:
		return row.Flag.String()
	case ColumnCode:
		return row.Code
	case ColumnQuantity:
		return FormatQuantity(row.Quantity)
	case ColumnWeight:
		return FormatWeight(row.Weight)
	case ColumnDescription:
		return row.Description
	case ColumnOrigin:
		return row.CountryOfOrigin
	case ColumnValue:
		return FormatMoney(row.Value)
	}
	return ""
}

// ProductTable describes the product rows drawn under the commodity header.
// The value column is always last so the total row can span the others.
type ProductTable struct {
	Columns    []Column
	RowHeight  float64
	TotalLabel string
}

// Widths returns the column widths in order
func (t ProductTable) Widths() []float64 {
	out := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Width
	}
	return out
}

// TotalWidths splits the total row into a label span and the value column
func (t ProductTable) TotalWidths() []float64 {
	last := t.Columns[len(t.Columns)-1].Width
	return []float64{100 - last, last}
}

func (t ProductTable) placeRow(x, y, w float64) PlacedRow {
	return PlacedRow{Y: y, Height: t.RowHeight, Columns: splitWidths(x, y, w, t.RowHeight, t.Widths())}
}

func (t ProductTable) placeTotal(x, y, w float64) PlacedRow {
	return PlacedRow{Y: y, Height: t.RowHeight, Columns: splitWidths(x, y, w, t.RowHeight, t.TotalWidths())}
}

// headerRow renders the column captions as one row of numbered cells
func (t ProductTable) headerRow(height float64) Row {
	cells := make([]Cell, 0, len(t.Columns))
	for _, c := range t.Columns {
		cells = append(cells, Cell{
			Box:    c.Box,
			Label:  c.Label,
			Width:  c.Width,
			Border: BorderAll,
			Shaded: true,
			Align:  c.Align,
		})
	}
	return mustRow(height, cells...)
}

// Form is the complete declarative SLI grid
type Form struct {
	Title       string
	TitleHeight float64
	Sections    []Section
	Products    ProductTable
}

// Walk visits every cell depth first in reading order
func (f *Form) Walk(fn func(c Cell, depth int)) {
	var walk func(rows []Row, depth int)
	walk = func(rows []Row, depth int) {
		for _, r := range rows {
			for _, c := range r.Cells {
				fn(c, depth)
				walk(c.Nested, depth+1)
			}
		}
	}
	for _, s := range f.Sections {
		walk(s.Rows, 0)
	}
}

// Boxes returns every box number on the form in reading order
func (f *Form) Boxes() []int {
	var out []int
	f.Walk(func(c Cell, _ int) {
		if c.Box > 0 {
			out = append(out, c.Box)
		}
	})
	return out
}

// StaticHeight is the height of everything except product and total rows
func (f *Form) StaticHeight() float64 {
	h := f.TitleHeight
	for _, s := range f.Sections {
		h += s.Height()
	}
	return h
}

// MaxProductRows is how many product rows fit in a live area of height h
func (f *Form) MaxProductRows(h float64) int {
	free := h - f.StaticHeight() - f.Products.RowHeight
	if free < 0 {
		return 0
	}
	return int(free / f.Products.RowHeight)
}

var standardForm = buildStandardForm()

// StandardForm returns the regulation SLI layout. The value is shared and
// must be treated as read-only.
func StandardForm() *Form {
	return standardForm
}

func field(box int, label string, width float64, f Field) Cell {
	return Cell{Box: box, Label: label, Width: width, Border: BorderAll, Content: Bound(f), Align: AlignLeft}
}

func wrapped(c Cell) Cell {
	c.Wrap = true
	return c
}

func plain(width float64, content Content) Cell {
	return Cell{Width: width, Content: content, Align: AlignLeft}
}

// labelled puts content rows under a blank caption strip so the box label
// never collides with nested content.
func labelled(box int, label string, width, height float64, rows ...Row) Cell {
	var used float64
	for _, r := range rows {
		used += r.Height
	}
	strip := mustRow(height-used, plain(100, Content{}))
	return Cell{
		Box:    box,
		Label:  label,
		Width:  width,
		Border: BorderAll,
		Nested: append([]Row{strip}, rows...),
	}
}

func lines(fields ...Field) []Row {
	out := make([]Row, 0, len(fields))
	for _, f := range fields {
		out = append(out, mustRow(lineHeight, plain(100, Bound(f))))
	}
	return out
}

func checks(boxes ...Content) Row {
	cells := make([]Cell, 0, len(boxes))
	for _, b := range boxes {
		cells = append(cells, plain(100/float64(len(boxes)), b))
	}
	return mustRow(checkRowHeight, cells...)
}

// spanning is the rowspan half drawn by the outer cell: no right edge,
// the sibling column strokes the seam.
func spanning(c Cell) Cell {
	c.Border = c.Border.Without(BorderRight)
	return c
}

// column stacks rows in a nested column whose left edge is the seam shared
// with a spanning sibling.
func column(width float64, rows ...Row) Cell {
	for i := range rows {
		for j := range rows[i].Cells {
			rows[i].Cells[j].Border = rows[i].Cells[j].Border.Without(BorderLeft)
		}
	}
	return Cell{Width: width, Border: BorderLeft, Nested: rows}
}

func buildStandardForm() *Form {
	products := ProductTable{
		RowHeight:  productRowHeight,
		TotalLabel: "TOTAL",
		Columns: []Column{
			{Key: ColumnFlag, Box: 26, Label: "D/F", Width: 6, Align: AlignCenter},
			{Key: ColumnCode, Box: 27, Label: "Schedule B / HTS No.", Width: 16, Align: AlignLeft},
			{Key: ColumnQuantity, Box: 28, Label: "Quantity", Width: 10, Align: AlignRight},
			{Key: ColumnWeight, Box: 29, Label: "Shipping Weight (kg)", Width: 12, Align: AlignRight},
			{Key: ColumnDescription, Box: 30, Label: "Description of Commodities", Width: 28, Align: AlignLeft},
			{Key: ColumnOrigin, Box: 31, Label: "Country of Origin", Width: 14, Align: AlignLeft},
			{Key: ColumnValue, Box: 32, Label: "Value (USD)", Width: 14, Align: AlignRight},
		},
	}

	exporterLines := lines(FieldExporterName, FieldExporterLine1, FieldExporterLine2, FieldExporterLine3, FieldExporterCountry)
	consigneeLines := lines(FieldConsigneeName, FieldConsigneeLine1, FieldConsigneeLine2, FieldConsigneeLine3, FieldConsigneeCountry)
	forwarderLines := lines(FieldForwarderLine1, FieldForwarderLine2, FieldForwarderLine3, FieldForwarderLine4)

	certification := Literal("I certify that the statements made and all information contained herein are true and correct " +
		"and that I have read and understand the instructions for preparation of this document. I understand that civil " +
		"and criminal penalties may be imposed for making false or fraudulent statements.")

	sections := []Section{
		{Name: "USPPI", Rows: []Row{mustRow(60,
			spanning(labelled(1, "U.S. Principal Party in Interest (USPPI)", 60, 60, exporterLines...)),
			column(40,
				mustRow(30, field(2, "USPPI EIN (IRS) or ID No.", 100, FieldExporterEIN)),
				mustRow(30, labelled(3, "Parties to Transaction", 100, 30,
					checks(Check(CheckPartiesRelated, "Related"), Check(CheckPartiesNonRelated, "Non-related")))),
			),
		)}},
		{Name: "Ultimate Consignee", Rows: []Row{mustRow(60,
			spanning(labelled(4, "Ultimate Consignee", 60, 60, consigneeLines...)),
			column(40,
				mustRow(30, field(5, "Shipper's Reference / Invoice No.", 100, FieldReference)),
				mustRow(30, field(6, "Date of Exportation", 100, FieldExportDate)),
			),
		)}},
		{Name: "Intermediate Consignee", Rows: []Row{mustRow(36,
			labelled(7, "Intermediate Consignee", 60, 36, lines(FieldIntermediateName, FieldIntermediateAddress)...),
			field(8, "Point (State) of Origin or FTZ No.", 20, FieldPointOfOrigin),
			field(9, "Country of Ultimate Destination", 20, FieldDestinationCountry),
		)}},
		{Name: "Forwarding Agent", Rows: []Row{mustRow(60,
			spanning(labelled(10, "Forwarding Agent", 60, 60, forwarderLines...)),
			column(40,
				mustRow(30,
					field(11, "In-Bond Code", 50, FieldInBondCode),
					field(12, "Entry Number", 50, FieldEntryNumber),
				),
				mustRow(30, field(13, "Loading Pier / Terminal", 100, FieldLoadingPier)),
			),
		)}},
		{Name: "Transportation", Rows: []Row{mustRow(24,
			field(14, "Method of Transportation", 34, FieldTransportMethod),
			field(15, "Exporting Carrier", 33, FieldCarrier),
			labelled(16, "Containerized", 33, 24, checks(Check(CheckContainerizedYes, "Yes"), Check(CheckContainerizedNo, "No"))),
		)}},
		{Name: "Ports", Rows: []Row{mustRow(24,
			field(17, "Port of Export", 50, FieldPortOfExport),
			field(18, "Port of Unloading", 50, FieldPortOfUnloading),
		)}},
		{Name: "Compliance", Rows: []Row{mustRow(24,
			labelled(19, "Hazardous Materials", 34, 24, checks(Check(CheckHazmatYes, "Yes"), Check(CheckHazmatNo, "No"))),
			labelled(20, "Routed Export Transaction", 33, 24, checks(Check(CheckRoutedExportYes, "Yes"), Check(CheckRoutedExportNo, "No"))),
			labelled(21, "TIB / Carnet", 33, 24, checks(Check(CheckCarnetYes, "Yes"), Check(CheckCarnetNo, "No"))),
		)}},
		{Name: "Licensing", Rows: []Row{mustRow(24,
			field(22, "License No. / License Exception Symbol", 40, FieldLicenseNumber),
			field(23, "ECCN", 25, FieldECCN),
			field(24, "AES ITN", 35, FieldITN),
		)}},
		{Name: "Commodities", Products: true, Rows: []Row{mustRow(36,
			Cell{
				Box:    25,
				Label:  "Commodity Description and Classification",
				Width:  100,
				Border: BorderAll,
				Nested: []Row{
					mustRow(12, plain(100, Content{})),
					products.headerRow(24),
				},
			},
		)}},
		{Name: "Insurance and Charges", Rows: []Row{mustRow(24,
			labelled(33, "Insure Shipment", 25, 24, checks(Check(CheckInsureYes, "Yes"), Check(CheckInsureNo, "No"))),
			field(34, "Insurance Amount", 25, FieldInsuranceAmount),
			labelled(35, "Freight Charges", 25, 24, checks(Check(CheckFreightPrepaid, "Prepaid"), Check(CheckFreightCollect, "Collect"))),
			field(36, "C.O.D. Amount", 25, FieldCODAmount),
		)}},
		{Name: "Consolidation", Rows: []Row{mustRow(24,
			labelled(37, "Consolidate or Direct", 50, 24, checks(Check(CheckConsolidate, "Consolidate"), Check(CheckDirect, "Direct"))),
			field(38, "Total Shipping Weight (kg)", 50, FieldTotalWeight),
		)}},
		{Name: "Special Instructions", Rows: []Row{mustRow(48,
			wrapped(field(39, "Special Instructions", 100, FieldInstructions)),
		)}},
		{Name: "Documents Enclosed", Rows: []Row{mustRow(24,
			Cell{Box: 40, Label: "Document Enclosed", Width: 34, Border: BorderAll, Content: Check(CheckDocInvoice, "Commercial invoice")},
			Cell{Box: 41, Label: "Document Enclosed", Width: 33, Border: BorderAll, Content: Check(CheckDocPackingList, "Packing list")},
			Cell{Box: 42, Label: "Document Enclosed", Width: 33, Border: BorderAll, Content: Check(CheckDocOrigin, "Certificate of origin")},
		)}},
		{Name: "Designation of Agent", Rows: []Row{mustRow(24,
			Cell{Box: 43, Label: "Designation of Forwarding Agent", Width: 100, Border: BorderAll, Wrap: true,
				Content: Check(CheckDesignateForwarder, "The USPPI authorizes the forwarder named above to act as agent for export control and customs purposes.")},
		)}},
		{Name: "Certification", Rows: []Row{mustRow(30,
			Cell{Width: 100, Border: BorderAll, Shaded: true, Wrap: true, Content: certification, Align: AlignLeft},
		)}},
		{Name: "Authorized Signer", Rows: []Row{mustRow(24,
			field(44, "Name of Authorized Officer", 40, FieldSignerName),
			field(45, "Title", 30, FieldSignerTitle),
			field(46, "Date", 30, FieldSignerDate),
		)}},
		{Name: "Contact", Rows: []Row{mustRow(24,
			field(47, "Telephone No.", 50, FieldSignerPhone),
			field(48, "E-mail Address", 50, FieldSignerEmail),
		)}},
		{Name: "Forwarder Use", Rows: []Row{mustRow(24,
			Cell{Label: "For Forwarder Use Only", Width: 60, Border: BorderAll, Shaded: true},
			Cell{Label: "Validation", Width: 40, Border: BorderAll},
		)}},
	}

	form := &Form{
		Title:       FormTitle,
		TitleHeight: titleHeight,
		Sections:    sections,
		Products:    products,
	}
	if err := form.validate(); err != nil {
		panic("printing: " + err.Error())
	}
	return form
}

// validate checks the cross-row invariants mustRow cannot see
func (f *Form) validate() error {
	last := f.Products.Columns[len(f.Products.Columns)-1]
	if last.Key != ColumnValue {
		return fmt.Errorf("product value column must be last, got %s", last.Key)
	}
	seen := make(map[int]bool)
	for _, b := range f.Boxes() {
		if seen[b] {
			return fmt.Errorf("box %d declared twice", b)
		}
		seen[b] = true
	}
	products := 0
	for _, s := range f.Sections {
		if s.Products {
			products++
		}
	}
	if products != 1 {
		return fmt.Errorf("form needs exactly one product section, has %d", products)
	}
	return nil
}
