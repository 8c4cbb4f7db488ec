// Package store holds the stateful data-fetching layer behind each screen:
// single-entity resources, paginated lists, client-held collections, the
// cart mirror, and the cached product detail. Stores are independent; there
// is no cross-store transaction boundary, so two stores viewing the same
// entity may transiently disagree until their next refetch.
package store

import (
	"context"
	"sync"

	"github.com/erp/storefront/internal/api"
	"go.uber.org/zap"
)

// FetchFunc loads a single entity by id.
type FetchFunc[T any] func(ctx context.Context, id string) (*T, error)

// Snapshot is the observable state of a Resource.
type Snapshot[T any] struct {
	Data    *T
	Loading bool
	Err     string
}

// Resource fetches a single entity keyed by an identifier. Every identifier
// change cancels the previous in-flight request and bumps a monotonic
// sequence number; a response is committed only if its sequence is still
// current, so the last write wins keyed by request identity regardless of
// arrival order. Canceled requests commit nothing and surface no error.
type Resource[T any] struct {
	mu     sync.Mutex
	fetch  FetchFunc[T]
	logger *zap.Logger

	id     string
	seq    uint64
	cancel context.CancelFunc

	data    *T
	loading bool
	err     string
}

// ResourceOption is a functional option for configuring a Resource.
type ResourceOption[T any] func(*Resource[T])

// WithResourceLogger sets the logger for the resource.
func WithResourceLogger[T any](logger *zap.Logger) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.logger = logger
	}
}

// NewResource creates a resource backed by the given fetch function.
func NewResource[T any](fetch FetchFunc[T], opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{
		fetch:  fetch,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetID switches the resource to a new identifier and starts a fetch. An
// empty id skips fetching and reports not-loading. Setting the current id
// again is a no-op; use Reload to force a refetch.
func (r *Resource[T]) SetID(ctx context.Context, id string) {
	r.mu.Lock()
	if id == r.id {
		r.mu.Unlock()
		return
	}
	r.id = id

	if id == "" {
		if r.cancel != nil {
			r.cancel()
			r.cancel = nil
		}
		r.seq++
		r.data = nil
		r.loading = false
		r.err = ""
		r.mu.Unlock()
		return
	}

	r.startFetchLocked(ctx, id)
	r.mu.Unlock()
}

// Reload refetches the current identifier. No-op when no id is set.
func (r *Resource[T]) Reload(ctx context.Context) {
	r.mu.Lock()
	if r.id != "" {
		r.startFetchLocked(ctx, r.id)
	}
	r.mu.Unlock()
}

// Patch applies a local mutation to the held entity, if any. Used after a
// mutation whose response carries enough data to keep the copy accurate.
func (r *Resource[T]) Patch(fn func(*T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data != nil {
		fn(r.data)
	}
}

// Snapshot returns the current observable state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{Data: r.data, Loading: r.loading, Err: r.err}
}

// Close cancels any in-flight request.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// startFetchLocked supersedes any in-flight request and launches a new one.
// Caller must hold r.mu.
func (r *Resource[T]) startFetchLocked(ctx context.Context, id string) {
	if r.cancel != nil {
		r.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	seq := r.seq
	r.loading = true

	go func() {
		data, err := r.fetch(fetchCtx, id)

		r.mu.Lock()
		defer r.mu.Unlock()

		if seq != r.seq {
			// Superseded while in flight; the response is stale.
			r.logger.Debug("discarding stale response", zap.String("id", id))
			return
		}
		r.loading = false
		if err != nil {
			if api.IsCanceled(err) {
				return
			}
			// Keep the last-good data visible alongside the error.
			r.err = api.ErrorMessage(err)
			r.logger.Warn("resource fetch failed", zap.String("id", id), zap.Error(err))
			return
		}
		r.data = data
		r.err = ""
	}()
}
