package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/infrastructure/persistence/models"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
)

// DocumentReader loads a standalone SLI document
type DocumentReader interface {
	FindDocumentForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.SLIDocumentModel, error)
}

var _ infra.DataProvider = (*StandaloneProvider)(nil)

// StandaloneProvider builds an SLI from a typed-in document. Numeric columns
// are free text; anything unparsable prints as zero.
type StandaloneProvider struct {
	documents DocumentReader
}

// NewStandaloneProvider creates a new StandaloneProvider
func NewStandaloneProvider(documents DocumentReader) *StandaloneProvider {
	return &StandaloneProvider{documents: documents}
}

// GetSourceType returns the source this provider handles
func (p *StandaloneProvider) GetSourceType() printing.SourceType {
	return printing.SourceTypeStandalone
}

// GetData loads the document and resolves it
func (p *StandaloneProvider) GetData(ctx context.Context, tenantID, id uuid.UUID) (*printing.Document, error) {
	m, err := p.documents.FindDocumentForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	doc := &printing.Document{
		ID:         m.ID,
		Source:     printing.SourceTypeStandalone,
		Reference:  m.Reference,
		ExportDate: dateOrZero(m.ExportDate),
		Exporter: printing.Party{
			Name:    m.ExporterName,
			Lines:   models.SplitLines(m.ExporterAddress),
			Country: m.ExporterCountry,
		},
		ExporterEIN: m.ExporterEIN,
		Consignee: printing.Party{
			Name:    m.ConsigneeName,
			Lines:   models.SplitLines(m.ConsigneeAddress),
			Country: m.ConsigneeCountry,
		},
		ForwardingAgent: models.SplitLines(m.ForwarderAddress),
	}
	applyShipment(doc, m.ShipmentDetails)
	doc.Signer.Date = doc.ExportDate

	doc.Items = make([]printing.LineItem, 0, len(m.Items))
	for _, item := range m.Items {
		doc.Items = append(doc.Items, printing.LineItem{
			Code:            item.HSCode,
			Description:     item.Description,
			Quantity:        printing.ParseDecimal(item.Quantity),
			CaseQuantity:    printing.ParseDecimal(item.CaseQuantity),
			UnitWeight:      printing.ParseDecimal(item.UnitWeight),
			Value:           printing.ParseDecimal(item.Value),
			CountryOfOrigin: item.CountryOfOrigin,
		})
	}
	return doc, nil
}
