package store

import (
	"context"

	"github.com/erp/storefront/internal/rest"
	"go.uber.org/zap"
)

// WarehouseAPI is the slice of the warehouse service the store depends on.
type WarehouseAPI interface {
	List(ctx context.Context) ([]rest.Warehouse, error)
	Create(ctx context.Context, input rest.WarehouseInput) (*rest.Warehouse, error)
	Update(ctx context.Context, id string, input rest.WarehouseInput) (*rest.Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// Warehouses holds the warehouse list client-side with the same
// patch-on-mutate policy as Providers. Deleting a warehouse relies on the
// server-side cascade to its stock variations and transactions; locally it
// only drops the one record.
type Warehouses struct {
	coll *Collection[rest.Warehouse]
	api  WarehouseAPI
}

// NewWarehouses creates a warehouse store over the given service.
func NewWarehouses(warehouseAPI WarehouseAPI, logger *zap.Logger) *Warehouses {
	return &Warehouses{
		coll: NewCollection(warehouseAPI.List, func(w rest.Warehouse) string { return w.ID }, logger),
		api:  warehouseAPI,
	}
}

// Load fetches the full warehouse list.
func (w *Warehouses) Load(ctx context.Context) {
	w.coll.Load(ctx)
}

// Create creates a warehouse and appends the stored record locally.
func (w *Warehouses) Create(ctx context.Context, input rest.WarehouseInput) (*rest.Warehouse, error) {
	created, err := w.api.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	w.coll.Append(*created)
	return created, nil
}

// Update updates a warehouse and splices the stored record in locally.
func (w *Warehouses) Update(ctx context.Context, id string, input rest.WarehouseInput) (*rest.Warehouse, error) {
	updated, err := w.api.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	w.coll.Update(*updated)
	return updated, nil
}

// Delete deletes a warehouse and filters it out locally.
func (w *Warehouses) Delete(ctx context.Context, id string) error {
	if err := w.api.Delete(ctx, id); err != nil {
		return err
	}
	w.coll.Remove(id)
	return nil
}

// Snapshot returns the current observable state.
func (w *Warehouses) Snapshot() CollectionSnapshot[rest.Warehouse] {
	return w.coll.Snapshot()
}

// Close cancels any in-flight fetch.
func (w *Warehouses) Close() {
	w.coll.Close()
}

var _ WarehouseAPI = (*rest.WarehouseService)(nil)
