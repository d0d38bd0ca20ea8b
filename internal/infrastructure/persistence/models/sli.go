package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel is a legal entity that ships or receives goods: the tenant's
// own exporter record or a customer acting as consignee.
type CompanyModel struct {
	TenantModel
	Name         string `gorm:"type:varchar(200);not null"`
	AddressLine1 string `gorm:"type:varchar(200)"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(100)"`
	PostalCode   string `gorm:"type:varchar(20)"`
	Country      string `gorm:"type:varchar(100)"`
	EIN          string `gorm:"column:ein;type:varchar(20)"`
	ContactName  string `gorm:"type:varchar(100)"`
	ContactTitle string `gorm:"type:varchar(100)"`
	Phone        string `gorm:"type:varchar(50)"`
	Email        string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// Locality joins city, state and postal code the way a US address line reads
func (m *CompanyModel) Locality() string {
	return locality(m.City, m.State, m.PostalCode)
}

// ForwarderModel is a freight forwarder the exporter authorizes
type ForwarderModel struct {
	TenantModel
	Name         string `gorm:"type:varchar(200);not null"`
	AddressLine1 string `gorm:"type:varchar(200)"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(100)"`
	PostalCode   string `gorm:"type:varchar(20)"`
	Country      string `gorm:"type:varchar(100)"`
	Phone        string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ForwarderModel) TableName() string {
	return "forwarders"
}

// Locality joins city, state and postal code
func (m *ForwarderModel) Locality() string {
	return locality(m.City, m.State, m.PostalCode)
}

// ProductModel is a catalog product. Unit weight is kept as entered by
// catalog maintainers and may not be numeric.
type ProductModel struct {
	TenantModel
	SKU             string `gorm:"column:sku;type:varchar(50);not null"`
	Name            string `gorm:"type:varchar(200);not null"`
	Description     string `gorm:"type:text"`
	HSCode          string `gorm:"column:hs_code;type:varchar(20)"`
	UnitWeight      string `gorm:"type:varchar(50)"`
	CountryOfOrigin string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ShipmentDetails holds the export declaration fields shared by orders and
// standalone documents
type ShipmentDetails struct {
	PointOfOrigin       string `gorm:"type:varchar(100)"`
	DestinationCountry  string `gorm:"type:varchar(100)"`
	InBondCode          string `gorm:"type:varchar(10)"`
	EntryNumber         string `gorm:"type:varchar(50)"`
	LoadingPier         string `gorm:"type:varchar(100)"`
	TransportMethod     string `gorm:"type:varchar(50)"`
	Carrier             string `gorm:"type:varchar(100)"`
	PortOfExport        string `gorm:"type:varchar(100)"`
	PortOfUnloading     string `gorm:"type:varchar(100)"`
	LicenseNumber       string `gorm:"type:varchar(50)"`
	ECCN                string `gorm:"column:eccn;type:varchar(20)"`
	ITN                 string `gorm:"column:itn;type:varchar(30)"`
	InsuranceAmount     string `gorm:"type:varchar(50)"`
	CODAmount           string `gorm:"column:cod_amount;type:varchar(50)"`
	IntermediateName    string `gorm:"type:varchar(200)"`
	IntermediateAddress string `gorm:"type:varchar(500)"`
	Instructions        string `gorm:"type:text"`
	SignerName          string `gorm:"type:varchar(100)"`
	SignerTitle         string `gorm:"type:varchar(100)"`
	SignerPhone         string `gorm:"type:varchar(50)"`
	SignerEmail         string `gorm:"type:varchar(200)"`
	// Checkboxes is a JSON object of checkbox key to bool
	Checkboxes string `gorm:"type:text"`
}

// CheckboxMap decodes the stored checkbox JSON. Malformed content reads as
// no boxes checked.
func (d ShipmentDetails) CheckboxMap() map[string]bool {
	out := make(map[string]bool)
	if strings.TrimSpace(d.Checkboxes) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(d.Checkboxes), &out); err != nil {
		return map[string]bool{}
	}
	return out
}

// OrderModel is a portal order shipped to a customer
type OrderModel struct {
	TenantModel
	OrderNumber     string          `gorm:"type:varchar(50);not null;index"`
	InvoiceNumber   string          `gorm:"type:varchar(50)"`
	ExporterID      uuid.UUID       `gorm:"type:uuid;not null"`
	Exporter        *CompanyModel   `gorm:"foreignKey:ExporterID"`
	ConsigneeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Consignee       *CompanyModel   `gorm:"foreignKey:ConsigneeID"`
	ForwarderID     *uuid.UUID      `gorm:"type:uuid"`
	Forwarder       *ForwarderModel `gorm:"foreignKey:ForwarderID"`
	ShipDate        *time.Time
	ShipmentDetails `gorm:"embedded"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one line of an order
type OrderItemModel struct {
	BaseModel
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber   int             `gorm:"not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Product      *ProductModel   `gorm:"foreignKey:ProductID"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CaseQuantity string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// SLIDocumentModel is a free-standing SLI typed in by a user rather than
// derived from an order. Party details are stored inline.
type SLIDocumentModel struct {
	TenantModel
	Reference  string `gorm:"type:varchar(50);not null;index"`
	ExportDate *time.Time

	ExporterName     string `gorm:"type:varchar(200)"`
	ExporterAddress  string `gorm:"type:varchar(500)"` // newline separated
	ExporterCountry  string `gorm:"type:varchar(100)"`
	ExporterEIN      string `gorm:"column:exporter_ein;type:varchar(20)"`
	ConsigneeName    string `gorm:"type:varchar(200)"`
	ConsigneeAddress string `gorm:"type:varchar(500)"` // newline separated
	ConsigneeCountry string `gorm:"type:varchar(100)"`
	ForwarderAddress string `gorm:"type:varchar(500)"` // newline separated, name first

	ShipmentDetails `gorm:"embedded"`
	Items           []SLIDocumentItemModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (SLIDocumentModel) TableName() string {
	return "sli_documents"
}

// SLIDocumentItemModel is a typed-in product line. Numeric columns hold
// whatever the user entered.
type SLIDocumentItemModel struct {
	BaseModel
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber      int       `gorm:"not null"`
	HSCode          string    `gorm:"column:hs_code;type:varchar(20)"`
	Description     string    `gorm:"type:varchar(500)"`
	Quantity        string    `gorm:"type:varchar(50)"`
	CaseQuantity    string    `gorm:"type:varchar(50)"`
	UnitWeight      string    `gorm:"type:varchar(50)"`
	Value           string    `gorm:"type:varchar(50)"`
	CountryOfOrigin string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SLIDocumentItemModel) TableName() string {
	return "sli_document_items"
}

// SplitLines splits a stored multi-line address, dropping blank lines
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func locality(city, state, postal string) string {
	head := strings.TrimSpace(city)
	tail := strings.TrimSpace(strings.TrimSpace(state) + " " + strings.TrimSpace(postal))
	switch {
	case head == "":
		return tail
	case tail == "":
		return head
	}
	return head + ", " + tail
}
