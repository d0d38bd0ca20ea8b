package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/shared"
	"github.com/orderportal/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSLITestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CompanyModel{},
		&models.ForwarderModel{},
		&models.ProductModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.SLIDocumentModel{},
		&models.SLIDocumentItemModel{},
	)
	require.NoError(t, err)
	return db
}

type orderFixture struct {
	tenantID uuid.UUID
	orderID  uuid.UUID
}

func seedOrder(t *testing.T, db *gorm.DB) orderFixture {
	t.Helper()
	tenantID := uuid.New()

	exporter := models.CompanyModel{
		TenantModel:  models.TenantModel{TenantID: tenantID},
		Name:         "Acme Tools Inc.",
		AddressLine1: "100 Main St",
		City:         "Dayton",
		State:        "OH",
		PostalCode:   "45402",
		Country:      "USA",
		EIN:          "12-3456789",
	}
	consignee := models.CompanyModel{
		TenantModel:  models.TenantModel{TenantID: tenantID},
		Name:         "Werkzeug GmbH",
		AddressLine1: "Hafenstrasse 1",
		City:         "Hamburg",
		PostalCode:   "20457",
		Country:      "Germany",
	}
	forwarder := models.ForwarderModel{
		TenantModel:  models.TenantModel{TenantID: tenantID},
		Name:         "Fast Freight LLC",
		AddressLine1: "1 Port Rd",
		City:         "Newark",
		State:        "NJ",
		PostalCode:   "07114",
		Country:      "USA",
	}
	require.NoError(t, db.Create(&exporter).Error)
	require.NoError(t, db.Create(&consignee).Error)
	require.NoError(t, db.Create(&forwarder).Error)

	drill := models.ProductModel{
		TenantModel: models.TenantModel{TenantID: tenantID},
		SKU:         "DR-100", Name: "Drill", HSCode: "8467.21", UnitWeight: "2.5", CountryOfOrigin: "USA",
	}
	bits := models.ProductModel{
		TenantModel: models.TenantModel{TenantID: tenantID},
		SKU:         "BT-200", Name: "Bit set", HSCode: "8207.50", UnitWeight: "0.4kg", CountryOfOrigin: "China",
	}
	require.NoError(t, db.Create(&drill).Error)
	require.NoError(t, db.Create(&bits).Error)

	shipDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	order := models.OrderModel{
		TenantModel:   models.TenantModel{TenantID: tenantID},
		OrderNumber:   "SO-1001",
		InvoiceNumber: "INV-1001",
		ExporterID:    exporter.ID,
		ConsigneeID:   consignee.ID,
		ForwarderID:   &forwarder.ID,
		ShipDate:      &shipDate,
		ShipmentDetails: models.ShipmentDetails{
			InBondCode: "70",
			Checkboxes: `{"routed_export_no":true,"hazmat_no":true}`,
		},
		Items: []models.OrderItemModel{
			{LineNumber: 2, ProductID: bits.ID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("4.5"), CaseQuantity: "1"},
			{LineNumber: 1, ProductID: drill.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(120), CaseQuantity: "3"},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	return orderFixture{tenantID: tenantID, orderID: order.ID}
}

func TestGormOrderReader_FindOrderForTenant(t *testing.T) {
	db := setupSLITestDB(t)
	fx := seedOrder(t, db)
	reader := NewGormOrderReader(db)
	ctx := context.Background()

	t.Run("loads order with parties and items", func(t *testing.T) {
		order, err := reader.FindOrderForTenant(ctx, fx.tenantID, fx.orderID)
		require.NoError(t, err)

		assert.Equal(t, "SO-1001", order.OrderNumber)
		require.NotNil(t, order.Exporter)
		assert.Equal(t, "Acme Tools Inc.", order.Exporter.Name)
		require.NotNil(t, order.Consignee)
		assert.Equal(t, "Werkzeug GmbH", order.Consignee.Name)
		require.NotNil(t, order.Forwarder)
		assert.Equal(t, "Newark, NJ 07114", order.Forwarder.Locality())

		require.Len(t, order.Items, 2)
		assert.Equal(t, 1, order.Items[0].LineNumber)
		require.NotNil(t, order.Items[0].Product)
		assert.Equal(t, "8467.21", order.Items[0].Product.HSCode)
		assert.True(t, decimal.NewFromInt(3).Equal(order.Items[0].Quantity))
		assert.Equal(t, "0.4kg", order.Items[1].Product.UnitWeight)

		assert.Equal(t, map[string]bool{"routed_export_no": true, "hazmat_no": true}, order.CheckboxMap())
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		_, err := reader.FindOrderForTenant(ctx, uuid.New(), fx.orderID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := reader.FindOrderForTenant(ctx, fx.tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSLIDocumentReader_FindDocumentForTenant(t *testing.T) {
	db := setupSLITestDB(t)
	reader := NewGormSLIDocumentReader(db)
	ctx := context.Background()
	tenantID := uuid.New()

	doc := models.SLIDocumentModel{
		TenantModel:      models.TenantModel{TenantID: tenantID},
		Reference:        "SLI-77",
		ConsigneeName:    "Werkzeug GmbH",
		ConsigneeAddress: "Hafenstrasse 1\n\n20457 Hamburg\n",
		Items: []models.SLIDocumentItemModel{
			{LineNumber: 1, HSCode: "8471.30", Quantity: "2", Value: "$1,200.00", CountryOfOrigin: "USA"},
			{LineNumber: 2, HSCode: "", Quantity: "abc", Value: "", CountryOfOrigin: "Mexico"},
		},
	}
	require.NoError(t, db.Create(&doc).Error)

	found, err := reader.FindDocumentForTenant(ctx, tenantID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "SLI-77", found.Reference)
	assert.Equal(t, []string{"Hafenstrasse 1", "20457 Hamburg"}, models.SplitLines(found.ConsigneeAddress))
	require.Len(t, found.Items, 2)
	assert.Equal(t, "$1,200.00", found.Items[0].Value)
	assert.Equal(t, "abc", found.Items[1].Quantity)

	_, err = reader.FindDocumentForTenant(ctx, uuid.New(), doc.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderReader_DriverError(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(assert.AnError)

	_, err := NewGormOrderReader(db.DB).FindOrderForTenant(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckboxMap_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"not json", "{oops", map[string]bool{}},
		{"wrong shape", `["insure_yes"]`, map[string]bool{}},
		{"valid", `{"insure_yes":true,"insure_no":false}`, map[string]bool{"insure_yes": true, "insure_no": false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ShipmentDetails{Checkboxes: tt.raw}.CheckboxMap())
		})
	}
}
