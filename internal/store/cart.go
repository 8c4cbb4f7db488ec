package store

import (
	"context"
	"sync"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/rest"
	"go.uber.org/zap"
)

// CartAPI is the slice of the cart service the store depends on.
type CartAPI interface {
	Get(ctx context.Context) (*rest.Cart, error)
	AddItem(ctx context.Context, input rest.AddCartItemInput) error
	UpdateItem(ctx context.Context, variationID string, quantity int) error
	RemoveItem(ctx context.Context, variationID string) error
	ApplyDiscount(ctx context.Context, code string) error
	Clear(ctx context.Context) error
}

// CartSnapshot is the observable state of the cart store.
type CartSnapshot struct {
	Cart    *rest.Cart
	Loading bool
	Err     string
}

// Cart mirrors the server-held cart. The mirror is only eventually
// consistent: every mutation triggers a full refetch because totals and
// discount stacking involve server-side policy the client cannot
// replicate. The one exception is Clear, which presents an empty cart
// optimistically before the server confirms.
type Cart struct {
	mu     sync.Mutex
	api    CartAPI
	logger *zap.Logger

	cart    *rest.Cart
	loading bool
	err     string
}

// NewCart creates a cart store over the given service.
func NewCart(cartAPI CartAPI, logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{api: cartAPI, logger: logger}
}

// Load fetches the cart from the server. Blocks until the fetch completes.
func (c *Cart) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	cart, err := c.api.Get(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		if api.IsCanceled(err) {
			return err
		}
		c.err = api.ErrorMessage(err)
		c.logger.Warn("cart fetch failed", zap.Error(err))
		return err
	}
	c.cart = cart
	c.err = ""
	return nil
}

// AddItem adds a variation to the cart and refetches.
func (c *Cart) AddItem(ctx context.Context, input rest.AddCartItemInput) error {
	return c.mutate(ctx, func() error { return c.api.AddItem(ctx, input) })
}

// UpdateItem sets a line quantity and refetches.
func (c *Cart) UpdateItem(ctx context.Context, variationID string, quantity int) error {
	return c.mutate(ctx, func() error { return c.api.UpdateItem(ctx, variationID, quantity) })
}

// RemoveItem removes a line and refetches.
func (c *Cart) RemoveItem(ctx context.Context, variationID string) error {
	return c.mutate(ctx, func() error { return c.api.RemoveItem(ctx, variationID) })
}

// ApplyDiscount applies a discount code and refetches.
func (c *Cart) ApplyDiscount(ctx context.Context, code string) error {
	return c.mutate(ctx, func() error { return c.api.ApplyDiscount(ctx, code) })
}

// Clear optimistically presents an empty cart, then asks the server to
// clear it. If the server call fails the previous snapshot is restored and
// the error surfaced; on success the confirming refetch converges the
// mirror to the server's state.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	previous := c.cart
	c.cart = &rest.Cart{}
	c.err = ""
	c.mu.Unlock()

	if err := c.api.Clear(ctx); err != nil {
		c.mu.Lock()
		c.cart = previous
		if !api.IsCanceled(err) {
			c.err = api.ErrorMessage(err)
		}
		c.mu.Unlock()
		return err
	}

	return c.Load(ctx)
}

// Snapshot returns the current observable state.
func (c *Cart) Snapshot() CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CartSnapshot{Cart: c.cart, Loading: c.loading, Err: c.err}
}

// mutate runs a server mutation and, on success, drops any local optimism
// by refetching the whole cart. A failed mutation leaves the mirror
// untouched; the error is returned for caller-level surfacing.
func (c *Cart) mutate(ctx context.Context, call func() error) error {
	if err := call(); err != nil {
		return err
	}
	return c.Load(ctx)
}

var _ CartAPI = (*rest.CartService)(nil)
