package rest

import (
	"context"

	"github.com/erp/storefront/internal/api"
)

// CheckoutInput carries the fields submitted at checkout. Pricing, tax, and
// discount application happen server-side from the current cart.
type CheckoutInput struct {
	BillingAddress Address `json:"billingAddress" validate:"required"`
	Note           string  `json:"note"`
}

// CheckoutService wraps the checkout endpoint.
type CheckoutService struct {
	client *api.Client
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(client *api.Client) *CheckoutService {
	return &CheckoutService{client: client}
}

// Submit places an order from the current cart and returns the created
// order.
func (s *CheckoutService) Submit(ctx context.Context, input CheckoutInput) (*Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var order Order
	if err := s.client.Post(ctx, "/checkout", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
