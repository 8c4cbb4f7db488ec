package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/erp/storefront/internal/api"
)

// Warehouse is a named stock location. Deleting a warehouse cascades to its
// stock variations and transactions server-side; the client performs no
// cascade logic.
type Warehouse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// StockVariation is a (warehouse, product-variation) pair with a quantity.
type StockVariation struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouseId"`
	VariationID string `json:"variationId"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

// WarehouseInput carries the editable warehouse fields.
type WarehouseInput struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

// StockVariationQuery holds list filters for paged stock variations.
type StockVariationQuery struct {
	Page        int
	PageSize    int
	WarehouseID string
	Search      string
}

// WarehouseService wraps the warehouse and stock-variation endpoints.
type WarehouseService struct {
	client *api.Client
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(client *api.Client) *WarehouseService {
	return &WarehouseService{client: client}
}

// List fetches all warehouses. The list is small enough to hold client-side.
func (s *WarehouseService) List(ctx context.Context) ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := s.client.Get(ctx, "/warehouses", nil, &warehouses); err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Create creates a warehouse and returns the stored record.
func (s *WarehouseService) Create(ctx context.Context, input WarehouseInput) (*Warehouse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var w Warehouse
	if err := s.client.Post(ctx, "/warehouses", input, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Update updates a warehouse and returns the stored record.
func (s *WarehouseService) Update(ctx context.Context, id string, input WarehouseInput) (*Warehouse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var w Warehouse
	if err := s.client.Put(ctx, "/warehouses/"+id, input, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete deletes a warehouse. The server cascades to stock variations and
// transactions.
func (s *WarehouseService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/warehouses/"+id)
}

// Variations fetches all stock variations for a warehouse.
func (s *WarehouseService) Variations(ctx context.Context, warehouseID string) ([]StockVariation, error) {
	var variations []StockVariation
	if err := s.client.Get(ctx, "/warehouses/"+warehouseID+"/variations", nil, &variations); err != nil {
		return nil, err
	}
	return variations, nil
}

// PagedVariations fetches one page of stock variations across warehouses.
// The endpoint counts pages from 0.
func (s *WarehouseService) PagedVariations(ctx context.Context, q StockVariationQuery) (api.Page[StockVariation], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page-1))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.WarehouseID != "" {
		query.Set("warehouseId", q.WarehouseID)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	body, err := s.client.GetRaw(ctx, "/stock-variations", query)
	if err != nil {
		return api.Page[StockVariation]{}, err
	}
	return api.DecodePage[StockVariation](body, q.Page, q.PageSize, true)
}
