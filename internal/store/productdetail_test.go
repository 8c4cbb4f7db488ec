package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/cache"
	"github.com/erp/storefront/internal/rest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductAPI struct {
	mu      sync.Mutex
	calls   int
	product rest.Product
	err     error
}

func (f *fakeProductAPI) Get(ctx context.Context, id string) (*rest.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p := f.product
	p.ID = id
	return &p, nil
}

func (f *fakeProductAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newDetailFixture(t *testing.T, fake *fakeProductAPI, opts ...ProductDetailOption) *ProductDetail {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	d := NewProductDetail(fake, c, opts...)
	t.Cleanup(d.Close)
	return d
}

func waitForProduct(t *testing.T, d *ProductDetail) {
	t.Helper()
	require.Eventually(t, func() bool {
		s := d.Snapshot()
		return !s.Loading && s.Product != nil
	}, time.Second, 5*time.Millisecond)
}

func TestProductDetail_FreshCacheEntrySkipsNetwork(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake)
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)
	assert.Equal(t, 1, fake.callCount())

	// Returning to the same product within the TTL serves the cache entry
	// synchronously.
	d.SetID(ctx, "")
	d.SetID(ctx, "p1")

	s := d.Snapshot()
	assert.False(t, s.Loading)
	require.NotNil(t, s.Product)
	assert.Equal(t, "Desk", s.Product.Name)
	assert.Equal(t, 1, fake.callCount())
}

func TestProductDetail_ExpiredEntryFetchesAgain(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake, WithDetailTTL(20*time.Millisecond))
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)
	assert.Equal(t, 1, fake.callCount())

	time.Sleep(40 * time.Millisecond)

	d.SetID(ctx, "")
	d.SetID(ctx, "p1")
	waitForProduct(t, d)
	assert.Equal(t, 2, fake.callCount())
}

func TestProductDetail_RefetchBypassesCache(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake)
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)

	d.Refetch(ctx)
	require.Eventually(t, func() bool {
		return fake.callCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestProductDetail_InvalidateForcesNextFetch(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake)
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)

	d.Invalidate(ctx)
	d.SetID(ctx, "")
	d.SetID(ctx, "p1")
	waitForProduct(t, d)
	assert.Equal(t, 2, fake.callCount())
}

func TestProductDetail_SetLocalWritesThroughToCache(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake)
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)

	d.SetLocal(ctx, func(p *rest.Product) { p.Name = "Standing Desk" })
	assert.Equal(t, "Standing Desk", d.Snapshot().Product.Name)

	// The cache entry carries the patch; returning serves it without a call.
	d.SetID(ctx, "")
	d.SetID(ctx, "p1")
	assert.Equal(t, "Standing Desk", d.Snapshot().Product.Name)
	assert.Equal(t, 1, fake.callCount())
}

func TestProductDetail_EmptyIDClearsState(t *testing.T) {
	fake := &fakeProductAPI{product: rest.Product{Name: "Desk"}}
	d := newDetailFixture(t, fake)
	ctx := context.Background()

	d.SetID(ctx, "p1")
	waitForProduct(t, d)

	d.SetID(ctx, "")
	s := d.Snapshot()
	assert.Nil(t, s.Product)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Err)
}

func TestProductDetail_FetchErrorSurfaced(t *testing.T) {
	fake := &fakeProductAPI{err: &api.APIError{StatusCode: 404, Message: "product not found"}}
	d := newDetailFixture(t, fake)

	d.SetID(context.Background(), "missing")
	require.Eventually(t, func() bool {
		return d.Snapshot().Err != ""
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "product not found", d.Snapshot().Err)
}

func TestDeriveProduct_VariationPriceRange(t *testing.T) {
	p := &rest.Product{
		Price: decimal.NewFromInt(10),
		Variations: []rest.Variation{
			{ID: "v1", Price: decimal.NewFromInt(12)},
			{ID: "v2", Price: decimal.NewFromInt(5)},
			{ID: "v3", Price: decimal.NewFromInt(9)},
		},
	}

	derived := deriveProduct(p)
	assert.True(t, derived.HasVariations)
	assert.True(t, derived.MinPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, derived.MaxPrice.Equal(decimal.NewFromInt(12)))
}

func TestDeriveProduct_NoVariationsFallsBackToProductPrice(t *testing.T) {
	p := &rest.Product{Price: decimal.NewFromInt(10)}

	derived := deriveProduct(p)
	assert.False(t, derived.HasVariations)
	assert.True(t, derived.MinPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, derived.MaxPrice.Equal(decimal.NewFromInt(10)))
}

func TestDeriveProduct_DeduplicatesImages(t *testing.T) {
	p := &rest.Product{
		Images: []string{"a.jpg", "b.jpg"},
		Variations: []rest.Variation{
			{ID: "v1", ImageURL: "b.jpg"},
			{ID: "v2", ImageURL: "c.jpg"},
			{ID: "v3"},
		},
	}

	derived := deriveProduct(p)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, derived.Images)
}
