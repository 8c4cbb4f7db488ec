package store

import (
	"context"

	"github.com/erp/storefront/internal/rest"
	"go.uber.org/zap"
)

// ProviderAPI is the slice of the provider service the store depends on.
type ProviderAPI interface {
	List(ctx context.Context) ([]rest.Provider, error)
	Create(ctx context.Context, input rest.ProviderInput) (*rest.Provider, error)
	Update(ctx context.Context, id string, input rest.ProviderInput) (*rest.Provider, error)
	Delete(ctx context.Context, id string) error
}

// Providers holds the supplier list client-side and patches it after each
// mutation using the server-returned record; no refetch is issued.
type Providers struct {
	coll *Collection[rest.Provider]
	api  ProviderAPI
}

// NewProviders creates a provider store over the given service.
func NewProviders(providerAPI ProviderAPI, logger *zap.Logger) *Providers {
	return &Providers{
		coll: NewCollection(providerAPI.List, func(p rest.Provider) string { return p.ID }, logger),
		api:  providerAPI,
	}
}

// Load fetches the full provider list.
func (p *Providers) Load(ctx context.Context) {
	p.coll.Load(ctx)
}

// Create creates a provider and appends the stored record locally. The
// error is returned for caller-level surfacing.
func (p *Providers) Create(ctx context.Context, input rest.ProviderInput) (*rest.Provider, error) {
	created, err := p.api.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	p.coll.Append(*created)
	return created, nil
}

// Update updates a provider and splices the stored record in locally.
func (p *Providers) Update(ctx context.Context, id string, input rest.ProviderInput) (*rest.Provider, error) {
	updated, err := p.api.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	p.coll.Update(*updated)
	return updated, nil
}

// Delete deletes a provider and filters it out locally.
func (p *Providers) Delete(ctx context.Context, id string) error {
	if err := p.api.Delete(ctx, id); err != nil {
		return err
	}
	p.coll.Remove(id)
	return nil
}

// Snapshot returns the current observable state.
func (p *Providers) Snapshot() CollectionSnapshot[rest.Provider] {
	return p.coll.Snapshot()
}

// Close cancels any in-flight fetch.
func (p *Providers) Close() {
	p.coll.Close()
}

var _ ProviderAPI = (*rest.ProviderService)(nil)
