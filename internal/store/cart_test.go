package store

import (
	"context"
	"sync"
	"testing"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/rest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartAPI struct {
	mu       sync.Mutex
	cart     rest.Cart
	getCalls int
	addErr   error
	clearErr error
	onClear  func()
}

func (f *fakeCartAPI) Get(ctx context.Context) (*rest.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	c := f.cart
	c.Items = append([]rest.CartItem(nil), f.cart.Items...)
	return &c, nil
}

func (f *fakeCartAPI) AddItem(ctx context.Context, input rest.AddCartItemInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.cart.Items = append(f.cart.Items, rest.CartItem{
		VariationID: input.VariationID,
		Quantity:    input.Quantity,
	})
	return nil
}

func (f *fakeCartAPI) UpdateItem(ctx context.Context, variationID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].VariationID == variationID {
			f.cart.Items[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, variationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart.Items[:0]
	for _, item := range f.cart.Items {
		if item.VariationID != variationID {
			kept = append(kept, item)
		}
	}
	f.cart.Items = kept
	return nil
}

func (f *fakeCartAPI) ApplyDiscount(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart.DiscountCode = code
	return nil
}

func (f *fakeCartAPI) Clear(ctx context.Context) error {
	if f.onClear != nil {
		f.onClear()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cart = rest.Cart{}
	return nil
}

func twoItemCart() rest.Cart {
	return rest.Cart{
		Items: []rest.CartItem{
			{VariationID: "v1", Quantity: 1, Price: decimal.NewFromInt(10)},
			{VariationID: "v2", Quantity: 2, Price: decimal.NewFromInt(5)},
		},
		Subtotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
	}
}

func TestCart_MutationRefetches(t *testing.T) {
	fake := &fakeCartAPI{}
	c := NewCart(fake, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 1, fake.getCalls)

	require.NoError(t, c.AddItem(ctx, rest.AddCartItemInput{VariationID: "v1", Quantity: 2}))
	assert.Equal(t, 2, fake.getCalls)

	s := c.Snapshot()
	require.NotNil(t, s.Cart)
	require.Len(t, s.Cart.Items, 1)
	assert.Equal(t, "v1", s.Cart.Items[0].VariationID)
}

func TestCart_FailedMutationLeavesMirrorUntouched(t *testing.T) {
	fake := &fakeCartAPI{cart: twoItemCart()}
	c := NewCart(fake, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	fake.addErr = &api.APIError{StatusCode: 409, Message: "out of stock"}

	err := c.AddItem(ctx, rest.AddCartItemInput{VariationID: "v3", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "out of stock", api.ErrorMessage(err))

	s := c.Snapshot()
	assert.Len(t, s.Cart.Items, 2)
	// No refetch happened after the failure.
	assert.Equal(t, 1, fake.getCalls)
}

func TestCart_ClearShowsEmptyBeforeServerConfirms(t *testing.T) {
	fake := &fakeCartAPI{cart: twoItemCart()}
	c := NewCart(fake, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))

	var observedDuringClear int
	fake.onClear = func() {
		observedDuringClear = len(c.Snapshot().Cart.Items)
	}

	require.NoError(t, c.Clear(ctx))

	// The empty cart was visible while the server call was still running.
	assert.Equal(t, 0, observedDuringClear)

	s := c.Snapshot()
	assert.Empty(t, s.Cart.Items)
	assert.Empty(t, s.Err)
}

func TestCart_FailedClearRestoresPreviousCart(t *testing.T) {
	fake := &fakeCartAPI{cart: twoItemCart()}
	c := NewCart(fake, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	fake.clearErr = &api.APIError{StatusCode: 500, Message: "could not clear cart"}

	err := c.Clear(ctx)
	require.Error(t, err)

	s := c.Snapshot()
	require.NotNil(t, s.Cart)
	assert.Len(t, s.Cart.Items, 2)
	assert.Equal(t, "could not clear cart", s.Err)
}

func TestCart_ApplyDiscountRefetches(t *testing.T) {
	fake := &fakeCartAPI{cart: twoItemCart()}
	c := NewCart(fake, nil)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.ApplyDiscount(ctx, "SUMMER10"))

	assert.Equal(t, "SUMMER10", c.Snapshot().Cart.DiscountCode)
}
