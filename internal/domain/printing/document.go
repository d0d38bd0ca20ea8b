package printing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxForwarderLines = 4
	maxAddressLines   = 3
	dateLayout        = "01/02/2006"
)

// Party is a named participant with a postal address
type Party struct {
	Name    string   `json:"name"`
	Lines   []string `json:"lines"`
	Country string   `json:"country"`
}

// Signer is the person certifying the instructions
type Signer struct {
	Name  string    `json:"name"`
	Title string    `json:"title"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// Document is the normalized, fully resolved input for one SLI.
// Renderers never fetch data; everything printed comes from here.
type Document struct {
	ID         uuid.UUID  `json:"id"`
	Source     SourceType `json:"source"`
	Reference  string     `json:"reference"`
	ExportDate time.Time  `json:"exportDate"`

	Exporter              Party    `json:"exporter"`
	ExporterEIN           string   `json:"exporterEin"`
	Consignee             Party    `json:"consignee"`
	IntermediateConsignee Party    `json:"intermediateConsignee"`
	ForwardingAgent       []string `json:"forwardingAgent"`

	PointOfOrigin      string `json:"pointOfOrigin"`
	DestinationCountry string `json:"destinationCountry"`
	InBondCode         string `json:"inBondCode"`
	EntryNumber        string `json:"entryNumber"`
	LoadingPier        string `json:"loadingPier"`
	TransportMethod    string `json:"transportMethod"`
	Carrier            string `json:"carrier"`
	PortOfExport       string `json:"portOfExport"`
	PortOfUnloading    string `json:"portOfUnloading"`
	LicenseNumber      string `json:"licenseNumber"`
	ECCN               string `json:"eccn"`
	ITN                string `json:"itn"`
	InsuranceAmount    string `json:"insuranceAmount"`
	CODAmount          string `json:"codAmount"`
	Instructions       string `json:"instructions"`

	Signer     Signer        `json:"signer"`
	Checkboxes CheckboxState `json:"checkboxes"`
	Items      []LineItem    `json:"items"`
}

// Filename returns the suggested download name derived from the reference
func (d *Document) Filename() string {
	ref := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '/' || r == '.':
			return '-'
		}
		return -1
	}, strings.TrimSpace(d.Reference))
	if ref == "" {
		ref = "document"
	}
	return "SLI-" + ref + ".pdf"
}

// Field names a data-bound slot on the form
type Field string

const (
	FieldExporterName    Field = "exporter.name"
	FieldExporterLine1   Field = "exporter.line1"
	FieldExporterLine2   Field = "exporter.line2"
	FieldExporterLine3   Field = "exporter.line3"
	FieldExporterCountry Field = "exporter.country"
	FieldExporterEIN     Field = "exporter.ein"

	FieldConsigneeName    Field = "consignee.name"
	FieldConsigneeLine1   Field = "consignee.line1"
	FieldConsigneeLine2   Field = "consignee.line2"
	FieldConsigneeLine3   Field = "consignee.line3"
	FieldConsigneeCountry Field = "consignee.country"

	FieldIntermediateName    Field = "intermediate.name"
	FieldIntermediateAddress Field = "intermediate.address"

	FieldForwarderLine1 Field = "forwarder.line1"
	FieldForwarderLine2 Field = "forwarder.line2"
	FieldForwarderLine3 Field = "forwarder.line3"
	FieldForwarderLine4 Field = "forwarder.line4"

	FieldReference          Field = "reference"
	FieldExportDate         Field = "export_date"
	FieldPointOfOrigin      Field = "point_of_origin"
	FieldDestinationCountry Field = "destination_country"
	FieldInBondCode         Field = "in_bond_code"
	FieldEntryNumber        Field = "entry_number"
	FieldLoadingPier        Field = "loading_pier"
	FieldTransportMethod    Field = "transport_method"
	FieldCarrier            Field = "carrier"
	FieldPortOfExport       Field = "port_of_export"
	FieldPortOfUnloading    Field = "port_of_unloading"
	FieldLicenseNumber      Field = "license_number"
	FieldECCN               Field = "eccn"
	FieldITN                Field = "itn"
	FieldInsuranceAmount    Field = "insurance_amount"
	FieldCODAmount          Field = "cod_amount"
	FieldTotalWeight        Field = "total_weight"
	FieldInstructions       Field = "instructions"

	FieldSignerName  Field = "signer.name"
	FieldSignerTitle Field = "signer.title"
	FieldSignerDate  Field = "signer.date"
	FieldSignerPhone Field = "signer.phone"
	FieldSignerEmail Field = "signer.email"
)

// Sheet is a document paired with its aggregated product rows.
// It is built once per request and read by every renderer.
type Sheet struct {
	Doc      *Document
	Products Aggregation
	values   map[Field]string
}

// NewSheet aggregates the document's line items and resolves every field
func NewSheet(doc *Document) *Sheet {
	s := &Sheet{
		Doc:      doc,
		Products: Aggregate(doc.Items),
	}
	s.values = s.resolve()
	return s
}

// Value returns the printed text for a field, empty when unknown
func (s *Sheet) Value(f Field) string {
	return s.values[f]
}

// Values returns a copy of every resolved field
func (s *Sheet) Values() map[Field]string {
	out := make(map[Field]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Glyph resolves a checkbox against the document's state
func (s *Sheet) Glyph(key CheckboxKey) Glyph {
	return Resolve(s.Doc.Checkboxes, key)
}

func (s *Sheet) resolve() map[Field]string {
	d := s.Doc
	exporter := padLines(d.Exporter.Lines, maxAddressLines)
	consignee := padLines(d.Consignee.Lines, maxAddressLines)
	forwarder := padLines(d.ForwardingAgent, maxForwarderLines)

	totalWeight := ""
	if s.Products.Len() > 0 {
		totalWeight = FormatWeight(s.Products.TotalWeight())
	}

	return map[Field]string{
		FieldExporterName:    d.Exporter.Name,
		FieldExporterLine1:   exporter[0],
		FieldExporterLine2:   exporter[1],
		FieldExporterLine3:   exporter[2],
		FieldExporterCountry: d.Exporter.Country,
		FieldExporterEIN:     d.ExporterEIN,

		FieldConsigneeName:    d.Consignee.Name,
		FieldConsigneeLine1:   consignee[0],
		FieldConsigneeLine2:   consignee[1],
		FieldConsigneeLine3:   consignee[2],
		FieldConsigneeCountry: d.Consignee.Country,

		FieldIntermediateName:    d.IntermediateConsignee.Name,
		FieldIntermediateAddress: joinNonEmpty(append(append([]string{}, d.IntermediateConsignee.Lines...), d.IntermediateConsignee.Country), ", "),

		FieldForwarderLine1: forwarder[0],
		FieldForwarderLine2: forwarder[1],
		FieldForwarderLine3: forwarder[2],
		FieldForwarderLine4: forwarder[3],

		FieldReference:          d.Reference,
		FieldExportDate:         formatDate(d.ExportDate),
		FieldPointOfOrigin:      d.PointOfOrigin,
		FieldDestinationCountry: d.DestinationCountry,
		FieldInBondCode:         d.InBondCode,
		FieldEntryNumber:        d.EntryNumber,
		FieldLoadingPier:        d.LoadingPier,
		FieldTransportMethod:    d.TransportMethod,
		FieldCarrier:            d.Carrier,
		FieldPortOfExport:       d.PortOfExport,
		FieldPortOfUnloading:    d.PortOfUnloading,
		FieldLicenseNumber:      d.LicenseNumber,
		FieldECCN:               d.ECCN,
		FieldITN:                d.ITN,
		FieldInsuranceAmount:    d.InsuranceAmount,
		FieldCODAmount:          d.CODAmount,
		FieldTotalWeight:        totalWeight,
		FieldInstructions:       d.Instructions,

		FieldSignerName:  d.Signer.Name,
		FieldSignerTitle: d.Signer.Title,
		FieldSignerDate:  formatDate(d.Signer.Date),
		FieldSignerPhone: d.Signer.Phone,
		FieldSignerEmail: d.Signer.Email,
	}
}

// padLines trims lines and returns exactly n entries.
// Lines beyond n are folded into the last slot so nothing is dropped.
func padLines(lines []string, n int) []string {
	out := make([]string, n)
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	for i, l := range kept {
		if i < n {
			out[i] = l
			continue
		}
		out[n-1] += ", " + l
	}
	return out
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
