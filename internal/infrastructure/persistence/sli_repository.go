package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/shared"
	"github.com/orderportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderReader loads orders with everything an SLI prints
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a new GormOrderReader
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

// FindOrderForTenant loads an order, its parties and its items with products.
// Items come back in line order.
func (r *GormOrderReader) FindOrderForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.OrderModel, error) {
	var order models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Exporter").
		Preload("Consignee").
		Preload("Forwarder").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Items.Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GormSLIDocumentReader loads standalone SLI documents
type GormSLIDocumentReader struct {
	db *gorm.DB
}

// NewGormSLIDocumentReader creates a new GormSLIDocumentReader
func NewGormSLIDocumentReader(db *gorm.DB) *GormSLIDocumentReader {
	return &GormSLIDocumentReader{db: db}
}

// FindDocumentForTenant loads a standalone document and its typed-in lines
func (r *GormSLIDocumentReader) FindDocumentForTenant(ctx context.Context, tenantID, id uuid.UUID) (*models.SLIDocumentModel, error) {
	var doc models.SLIDocumentModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}
