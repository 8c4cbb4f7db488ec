package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/cache"
	"github.com/erp/storefront/internal/rest"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductAPI is the slice of the product service the store depends on.
type ProductAPI interface {
	Get(ctx context.Context, id string) (*rest.Product, error)
}

// ProductDerived holds values computed from the fetched product record.
// They are recomputed only when the record changes.
type ProductDerived struct {
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	Images        []string
	HasVariations bool
}

// ProductSnapshot is the observable state of the product-detail store.
type ProductSnapshot struct {
	Product *rest.Product
	Derived ProductDerived
	Loading bool
	Err     string
}

// ProductDetail fetches product detail records through an injectable
// TTL-bounded cache with at most one in-flight request per id. A fresh
// cache entry is served without a network call; otherwise any in-flight
// request for the store is superseded and a new one issued, writing
// through to the cache on completion. Responses for ids that are no longer
// current are discarded.
type ProductDetail struct {
	mu     sync.Mutex
	api    ProductAPI
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	id     string
	seq    uint64
	cancel context.CancelFunc

	product *rest.Product
	derived ProductDerived
	loading bool
	err     string
}

// ProductDetailOption is a functional option for configuring the store.
type ProductDetailOption func(*ProductDetail)

// WithDetailTTL sets the cache entry time-to-live.
func WithDetailTTL(ttl time.Duration) ProductDetailOption {
	return func(d *ProductDetail) {
		d.ttl = ttl
	}
}

// WithDetailLogger sets the logger for the store.
func WithDetailLogger(logger *zap.Logger) ProductDetailOption {
	return func(d *ProductDetail) {
		d.logger = logger
	}
}

// NewProductDetail creates a product-detail store over the given service
// and cache. The cache is injected so each construction (and each test)
// gets its own instance instead of sharing process-wide state.
func NewProductDetail(productAPI ProductAPI, detailCache cache.Cache, opts ...ProductDetailOption) *ProductDetail {
	d := &ProductDetail{
		api:    productAPI,
		cache:  detailCache,
		ttl:    time.Minute,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetID switches the store to a new product id. A fresh cache entry is
// committed synchronously with no network call; otherwise a fetch is
// launched, superseding any in-flight request.
func (d *ProductDetail) SetID(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == d.id {
		return
	}
	d.id = id

	if id == "" {
		d.supersedeLocked()
		d.product = nil
		d.derived = ProductDerived{}
		d.loading = false
		d.err = ""
		return
	}

	if cached, err := d.cache.Get(ctx, cacheKey(id)); err == nil && cached != nil {
		var product rest.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			d.supersedeLocked()
			d.commitLocked(&product)
			d.loading = false
			return
		}
		// Unreadable entry: drop it and fall through to a fetch.
		_ = d.cache.Delete(ctx, cacheKey(id))
	}

	d.startFetchLocked(ctx, id)
}

// Refetch bypasses the cache and fetches the current id again.
func (d *ProductDetail) Refetch(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id != "" {
		d.startFetchLocked(ctx, d.id)
	}
}

// Invalidate deletes the cache entry for the current id without fetching.
func (d *ProductDetail) Invalidate(ctx context.Context) {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	if id != "" {
		_ = d.cache.Delete(ctx, cacheKey(id))
	}
}

// SetLocal applies an optimistic patch to the held record and writes it
// through to the cache, for immediate feedback after a related mutation
// elsewhere in the app.
func (d *ProductDetail) SetLocal(ctx context.Context, patch func(*rest.Product)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.product == nil {
		return
	}
	patch(d.product)
	d.derived = deriveProduct(d.product)
	d.writeThroughLocked(ctx, d.id, d.product)
}

// Snapshot returns the current observable state.
func (d *ProductDetail) Snapshot() ProductSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ProductSnapshot{Product: d.product, Derived: d.derived, Loading: d.loading, Err: d.err}
}

// Close cancels any in-flight request.
func (d *ProductDetail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}

// supersedeLocked cancels the in-flight request, if any, and bumps the
// sequence so its response is discarded. Caller must hold d.mu.
func (d *ProductDetail) supersedeLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}

// startFetchLocked supersedes any in-flight request and launches a new
// one for id. Caller must hold d.mu.
func (d *ProductDetail) startFetchLocked(ctx context.Context, id string) {
	d.supersedeLocked()
	fetchCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	seq := d.seq
	d.loading = true

	go func() {
		product, err := d.api.Get(fetchCtx, id)

		d.mu.Lock()
		defer d.mu.Unlock()

		if seq != d.seq || id != d.id {
			// The requested id is no longer current.
			d.logger.Debug("discarding stale product detail", zap.String("id", id))
			return
		}
		d.loading = false
		if err != nil {
			if api.IsCanceled(err) {
				return
			}
			d.err = api.ErrorMessage(err)
			d.logger.Warn("product detail fetch failed", zap.String("id", id), zap.Error(err))
			return
		}
		d.commitLocked(product)
		d.writeThroughLocked(context.WithoutCancel(fetchCtx), id, product)
	}()
}

// commitLocked stores the record and recomputes derived values. Caller
// must hold d.mu.
func (d *ProductDetail) commitLocked(product *rest.Product) {
	d.product = product
	d.derived = deriveProduct(product)
	d.err = ""
}

// writeThroughLocked serializes the record into the cache. Cache write
// failures are logged, never surfaced; the fetched data is already
// committed.
func (d *ProductDetail) writeThroughLocked(ctx context.Context, id string, product *rest.Product) {
	payload, err := json.Marshal(product)
	if err != nil {
		d.logger.Warn("serializing product for cache failed", zap.String("id", id), zap.Error(err))
		return
	}
	if err := d.cache.Set(ctx, cacheKey(id), payload, d.ttl); err != nil {
		d.logger.Warn("caching product failed", zap.String("id", id), zap.Error(err))
	}
}

// cacheKey namespaces product ids inside the shared cache.
func cacheKey(id string) string {
	return "product:" + id
}

// deriveProduct computes the reactive values for a product record.
func deriveProduct(p *rest.Product) ProductDerived {
	derived := ProductDerived{HasVariations: len(p.Variations) > 0}

	if derived.HasVariations {
		derived.MinPrice = p.Variations[0].Price
		derived.MaxPrice = p.Variations[0].Price
		for _, v := range p.Variations[1:] {
			if v.Price.LessThan(derived.MinPrice) {
				derived.MinPrice = v.Price
			}
			if v.Price.GreaterThan(derived.MaxPrice) {
				derived.MaxPrice = v.Price
			}
		}
	} else {
		derived.MinPrice = p.Price
		derived.MaxPrice = p.Price
	}

	seen := make(map[string]struct{})
	appendImage := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		derived.Images = append(derived.Images, u)
	}
	for _, u := range p.Images {
		appendImage(u)
	}
	for _, v := range p.Variations {
		appendImage(v.ImageURL)
	}

	return derived
}

var _ ProductAPI = (*rest.ProductService)(nil)
