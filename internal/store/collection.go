package store

import (
	"context"
	"sync"

	"github.com/erp/storefront/internal/api"
	"go.uber.org/zap"
)

// CollectionFetchFunc loads the full collection in one call.
type CollectionFetchFunc[T any] func(ctx context.Context) ([]T, error)

// CollectionSnapshot is the observable state of a Collection.
type CollectionSnapshot[T any] struct {
	Items   []T
	Loading bool
	Err     string
}

// Collection holds a list small enough to keep entirely client-side and
// patches it in place after mutations instead of refetching: created
// records are appended, updates are spliced in by id, deletes are filtered
// out. This is only safe because the mutation endpoints return the full
// stored record; filtered or sorted views must resynchronize through their
// own List instead of splicing.
type Collection[T any] struct {
	mu     sync.Mutex
	fetch  CollectionFetchFunc[T]
	idOf   func(T) string
	logger *zap.Logger

	seq    uint64
	cancel context.CancelFunc

	items   []T
	loading bool
	err     string
}

// NewCollection creates a collection backed by the given fetch function.
// idOf extracts the identity used for splicing.
func NewCollection[T any](fetch CollectionFetchFunc[T], idOf func(T) string, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{
		fetch:  fetch,
		idOf:   idOf,
		logger: logger,
	}
}

// Load fetches the full collection.
func (c *Collection[T]) Load(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()

	go func() {
		items, err := c.fetch(fetchCtx)

		c.mu.Lock()
		defer c.mu.Unlock()

		if seq != c.seq {
			return
		}
		c.loading = false
		if err != nil {
			if api.IsCanceled(err) {
				return
			}
			c.err = api.ErrorMessage(err)
			c.logger.Warn("collection fetch failed", zap.Error(err))
			return
		}
		c.items = items
		c.err = ""
	}()
}

// Append adds a server-returned record to the end of the collection. An
// existing record with the same id is replaced instead, so a repeated
// create response never produces a duplicate entry.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(item)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// Update splices the server-returned record in by id. Unknown ids are
// ignored.
func (c *Collection[T]) Update(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(item)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
}

// Remove filters the record with the given id out of the collection.
func (c *Collection[T]) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, item := range c.items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Snapshot returns the current observable state.
func (c *Collection[T]) Snapshot() CollectionSnapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return CollectionSnapshot[T]{Items: items, Loading: c.loading, Err: c.err}
}

// Close cancels any in-flight fetch.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
