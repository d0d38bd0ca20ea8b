package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/domain/shared"
	"github.com/orderportal/backend/internal/infrastructure/persistence/models"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
)

// OrderReader loads an order with its parties and items
type OrderReader interface {
	FindOrderForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.OrderModel, error)
}

var _ infra.DataProvider = (*OrderProvider)(nil)

// OrderProvider builds an SLI from a portal order. Product lines take their
// classification code, unit weight and origin from the catalog.
type OrderProvider struct {
	orders OrderReader
}

// NewOrderProvider creates a new OrderProvider
func NewOrderProvider(orders OrderReader) *OrderProvider {
	return &OrderProvider{orders: orders}
}

// GetSourceType returns the source this provider handles
func (p *OrderProvider) GetSourceType() printing.SourceType {
	return printing.SourceTypeOrder
}

// GetData loads the order and resolves it into a Document
func (p *OrderProvider) GetData(ctx context.Context, tenantID, id uuid.UUID) (*printing.Document, error) {
	order, err := p.orders.FindOrderForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Exporter == nil {
		return nil, fmt.Errorf("order %s exporter %s: %w", order.OrderNumber, order.ExporterID, shared.ErrNotFound)
	}
	if order.Consignee == nil {
		return nil, fmt.Errorf("order %s consignee %s: %w", order.OrderNumber, order.ConsigneeID, shared.ErrNotFound)
	}

	reference := order.InvoiceNumber
	if reference == "" {
		reference = order.OrderNumber
	}

	doc := &printing.Document{
		ID:          order.ID,
		Source:      printing.SourceTypeOrder,
		Reference:   reference,
		ExportDate:  dateOrZero(order.ShipDate),
		Exporter:    companyParty(order.Exporter),
		ExporterEIN: order.Exporter.EIN,
		Consignee:   companyParty(order.Consignee),
	}
	applyShipment(doc, order.ShipmentDetails)

	if f := order.Forwarder; f != nil {
		doc.ForwardingAgent = compact(f.Name, f.AddressLine1, f.AddressLine2, f.Locality(), f.Country)
	}

	// The exporter's contact signs unless the order names someone else
	if doc.Signer.Name == "" {
		doc.Signer = printing.Signer{
			Name:  order.Exporter.ContactName,
			Title: order.Exporter.ContactTitle,
			Phone: order.Exporter.Phone,
			Email: order.Exporter.Email,
		}
	}
	doc.Signer.Date = doc.ExportDate

	items := make([]printing.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("order %s line %d product %s: %w", order.OrderNumber, item.LineNumber, item.ProductID, shared.ErrNotFound)
		}
		items = append(items, orderLine(item))
	}
	doc.Items = items

	return doc, nil
}

func orderLine(item models.OrderItemModel) printing.LineItem {
	product := item.Product
	description := product.Description
	if description == "" {
		description = product.Name
	}
	quantity := printing.ParseDecimal(item.Quantity)
	return printing.LineItem{
		Code:            product.HSCode,
		Description:     description,
		Quantity:        quantity,
		CaseQuantity:    printing.ParseDecimal(item.CaseQuantity),
		UnitWeight:      printing.ParseDecimal(product.UnitWeight),
		Value:           quantity.Mul(printing.ParseDecimal(item.UnitPrice)),
		CountryOfOrigin: product.CountryOfOrigin,
	}
}

func companyParty(c *models.CompanyModel) printing.Party {
	return printing.Party{
		Name:    c.Name,
		Lines:   compact(c.AddressLine1, c.AddressLine2, c.Locality()),
		Country: c.Country,
	}
}
