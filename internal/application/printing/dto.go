package printing

import (
	"strings"
	"time"

	domain "github.com/orderportal/backend/internal/domain/printing"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
)

const exportDateLayout = "2006-01-02"

// =============================================================================
// Posted record DTOs
// =============================================================================

// PartyDTO is a named participant with up to three address lines
type PartyDTO struct {
	Name    string   `json:"name" binding:"max=200"`
	Lines   []string `json:"lines" binding:"max=3,dive,max=200"`
	Country string   `json:"country" binding:"max=100"`
}

// SignerDTO is the person certifying the instructions
type SignerDTO struct {
	Name  string `json:"name" binding:"max=100"`
	Title string `json:"title" binding:"max=100"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email"`
}

// LineItemDTO is one product line. Numeric fields accept numbers or
// strings; anything that does not parse prints as zero.
type LineItemDTO struct {
	Code            string `json:"code" binding:"max=20"`
	Description     string `json:"description" binding:"max=500"`
	Quantity        any    `json:"quantity"`
	CaseQuantity    any    `json:"case_quantity"`
	UnitWeight      any    `json:"unit_weight"`
	Value           any    `json:"value"`
	CountryOfOrigin string `json:"country_of_origin" binding:"max=100"`
}

// RenderDocumentRequest is a fully resolved SLI posted by a caller that
// already holds the data
type RenderDocumentRequest struct {
	Reference             string          `json:"reference" binding:"max=50"`
	ExportDate            string          `json:"export_date" binding:"omitempty,datetime=2006-01-02"`
	Exporter              PartyDTO        `json:"exporter"`
	ExporterEIN           string          `json:"exporter_ein" binding:"max=20"`
	Consignee             PartyDTO        `json:"consignee"`
	IntermediateConsignee PartyDTO        `json:"intermediate_consignee"`
	ForwardingAgent       []string        `json:"forwarding_agent" binding:"max=4,dive,max=200"`
	PointOfOrigin         string          `json:"point_of_origin"`
	DestinationCountry    string          `json:"destination_country"`
	InBondCode            string          `json:"in_bond_code"`
	EntryNumber           string          `json:"entry_number"`
	LoadingPier           string          `json:"loading_pier"`
	TransportMethod       string          `json:"transport_method"`
	Carrier               string          `json:"carrier"`
	PortOfExport          string          `json:"port_of_export"`
	PortOfUnloading       string          `json:"port_of_unloading"`
	LicenseNumber         string          `json:"license_number"`
	ECCN                  string          `json:"eccn"`
	ITN                   string          `json:"itn"`
	InsuranceAmount       string          `json:"insurance_amount"`
	CODAmount             string          `json:"cod_amount"`
	Instructions          string          `json:"instructions" binding:"max=2000"`
	Signer                SignerDTO       `json:"signer"`
	Checkboxes            map[string]bool `json:"checkboxes"`
	Items                 []LineItemDTO   `json:"items" binding:"max=500,dive"`
}

// ToDocument converts the request into the normalized document.
// The export date must already have passed binding validation.
func (r *RenderDocumentRequest) ToDocument() *domain.Document {
	var exportDate time.Time
	if r.ExportDate != "" {
		exportDate, _ = time.Parse(exportDateLayout, r.ExportDate)
	}

	checks := make(domain.CheckboxState, len(r.Checkboxes))
	for k, v := range r.Checkboxes {
		checks[domain.CheckboxKey(strings.TrimSpace(k))] = v
	}

	items := make([]domain.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.LineItem{
			Code:            it.Code,
			Description:     it.Description,
			Quantity:        domain.ParseDecimal(it.Quantity),
			CaseQuantity:    domain.ParseDecimal(it.CaseQuantity),
			UnitWeight:      domain.ParseDecimal(it.UnitWeight),
			Value:           domain.ParseDecimal(it.Value),
			CountryOfOrigin: it.CountryOfOrigin,
		}
	}

	return &domain.Document{
		Source:                domain.SourceTypeStandalone,
		Reference:             r.Reference,
		ExportDate:            exportDate,
		Exporter:              r.Exporter.toParty(),
		ExporterEIN:           r.ExporterEIN,
		Consignee:             r.Consignee.toParty(),
		IntermediateConsignee: r.IntermediateConsignee.toParty(),
		ForwardingAgent:       r.ForwardingAgent,
		PointOfOrigin:         r.PointOfOrigin,
		DestinationCountry:    r.DestinationCountry,
		InBondCode:            r.InBondCode,
		EntryNumber:           r.EntryNumber,
		LoadingPier:           r.LoadingPier,
		TransportMethod:       r.TransportMethod,
		Carrier:               r.Carrier,
		PortOfExport:          r.PortOfExport,
		PortOfUnloading:       r.PortOfUnloading,
		LicenseNumber:         r.LicenseNumber,
		ECCN:                  r.ECCN,
		ITN:                   r.ITN,
		InsuranceAmount:       r.InsuranceAmount,
		CODAmount:             r.CODAmount,
		Instructions:          r.Instructions,
		Signer: domain.Signer{
			Name:  r.Signer.Name,
			Title: r.Signer.Title,
			Phone: r.Signer.Phone,
			Email: r.Signer.Email,
			Date:  exportDate,
		},
		Checkboxes: checks,
		Items:      items,
	}
}

func (p PartyDTO) toParty() domain.Party {
	return domain.Party{Name: p.Name, Lines: p.Lines, Country: p.Country}
}

// =============================================================================
// Results
// =============================================================================

// GenerateResult is a rendered artifact plus its archive location, if any
type GenerateResult struct {
	*infra.RenderResult
	Mode       domain.RenderMode
	ArchiveKey string
	ArchiveURL string
	// Conflicts lists the checkbox pairs that were both checked
	Conflicts []domain.CheckboxPair
}
