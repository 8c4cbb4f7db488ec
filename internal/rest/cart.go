package rest

import (
	"context"

	"github.com/erp/storefront/internal/api"
	"github.com/shopspring/decimal"
)

// CartItem is one line of the server-held cart.
type CartItem struct {
	VariationID string          `json:"variationId"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Cart mirrors the server-side cart for the authenticated user. Totals and
// discount amounts are computed server-side; the client never derives them.
type Cart struct {
	Items        []CartItem      `json:"items"`
	DiscountCode string          `json:"discountCode"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// AddCartItemInput carries the fields to add a variation to the cart.
type AddCartItemInput struct {
	VariationID string `json:"variationId" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// CartService wraps the cart endpoints. Mutation endpoints return no cart
// body, which is what forces the refetch-on-mutate policy in the store
// layer.
type CartService struct {
	client *api.Client
}

// NewCartService creates a new CartService
func NewCartService(client *api.Client) *CartService {
	return &CartService{client: client}
}

// Get fetches the current user's cart.
func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := s.client.Get(ctx, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a variation to the cart.
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	return s.client.Post(ctx, "/cart/items", input, nil)
}

// UpdateItem sets the quantity of a cart line.
func (s *CartService) UpdateItem(ctx context.Context, variationID string, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Fields: map[string]string{"Quantity": "must be at least 1"}}
	}
	body := map[string]int{"quantity": quantity}
	return s.client.Put(ctx, "/cart/items/"+variationID, body, nil)
}

// RemoveItem removes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, variationID string) error {
	return s.client.Delete(ctx, "/cart/items/"+variationID)
}

// ApplyDiscount applies a discount code to the cart.
func (s *CartService) ApplyDiscount(ctx context.Context, code string) error {
	if code == "" {
		return &ValidationError{Fields: map[string]string{"Code": "is required"}}
	}
	body := map[string]string{"code": code}
	return s.client.Post(ctx, "/cart/discount", body, nil)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	return s.client.Delete(ctx, "/cart")
}
