// Package providers loads SLI source records from the database and resolves
// them into the normalized printing.Document the renderers consume.
package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/domain/shared"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
)

// DataProviderRegistry maps each SourceType to the provider that loads it.
type DataProviderRegistry struct {
	mu        sync.RWMutex
	providers map[printing.SourceType]infra.DataProvider
}

// NewDataProviderRegistry creates a registry pre-filled with providers.
func NewDataProviderRegistry(providers ...infra.DataProvider) *DataProviderRegistry {
	r := &DataProviderRegistry{
		providers: make(map[printing.SourceType]infra.DataProvider),
	}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any existing one for the same source.
func (r *DataProviderRegistry) Register(provider infra.DataProvider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.GetSourceType()] = provider
}

// GetProvider returns the provider for source, if any.
func (r *DataProviderRegistry) GetProvider(source printing.SourceType) (infra.DataProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[source]
	return provider, ok
}

// LoadData resolves a document through the provider registered for source.
func (r *DataProviderRegistry) LoadData(ctx context.Context, tenantID uuid.UUID, source printing.SourceType, id uuid.UUID) (*printing.Document, error) {
	provider, ok := r.GetProvider(source)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("no data provider registered for source type: %s", source))
	}
	return provider.GetData(ctx, tenantID, id)
}

// RegisteredTypes returns the registered sources in sorted order.
func (r *DataProviderRegistry) RegisteredTypes() []printing.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]printing.SourceType, 0, len(r.providers))
	for source := range r.providers {
		types = append(types, source)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
