package printing

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/printing"
)

// DataProvider assembles the normalized SLI input for one kind of source record.
// Implementations return shared.ErrNotFound when the record does not exist for
// the tenant and never return a partially filled document.
type DataProvider interface {
	// GetSourceType returns the source this provider handles
	GetSourceType() printing.SourceType
	// GetData loads the record identified by id and resolves it into a Document
	GetData(ctx context.Context, tenantID, id uuid.UUID) (*printing.Document, error)
}
