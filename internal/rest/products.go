package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/erp/storefront/internal/api"
	"github.com/shopspring/decimal"
)

// Variation is a purchasable variant of a product.
type Variation struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	InStock  bool            `json:"inStock"`
}

// Product mirrors the backend product record.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId"`
	Images      []string        `json:"images"`
	Variations  []Variation     `json:"variations"`
}

// ProductQuery holds list filters for the catalog.
type ProductQuery struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID string
	SortBy     string
}

// ProductService wraps the catalog endpoints.
type ProductService struct {
	client *api.Client
}

// NewProductService creates a new ProductService
func NewProductService(client *api.Client) *ProductService {
	return &ProductService{client: client}
}

// List fetches one page of the catalog. The endpoint is 1-based.
func (s *ProductService) List(ctx context.Context, q ProductQuery) (api.Page[Product], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		query.Set("categoryId", q.CategoryID)
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}

	body, err := s.client.GetRaw(ctx, "/products", query)
	if err != nil {
		return api.Page[Product]{}, err
	}
	return api.DecodePage[Product](body, q.Page, q.PageSize, false)
}

// Get fetches a product detail record by id.
func (s *ProductService) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.client.Get(ctx, "/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BatchGet fetches the products for the given ids. Missing ids are silently
// dropped by the backend, not reported as partial failure.
func (s *ProductService) BatchGet(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body := map[string][]string{"ids": ids}
	var products []Product
	if err := s.client.Post(ctx, "/products/batch", body, &products); err != nil {
		return nil, err
	}
	return products, nil
}
