package store

import (
	"context"
	"sync"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/erp/storefront/internal/debounce"
	"go.uber.org/zap"
)

const (
	defaultPageSize       = 10
	defaultSearchDebounce = 500 * time.Millisecond
)

// ListFetchFunc loads one page of a filtered list. page is 1-based; any
// translation to the backend's convention happens inside the function.
type ListFetchFunc[T any] func(ctx context.Context, page, pageSize int, search string, filters map[string]string) (api.Page[T], error)

// ListSnapshot is the observable state of a List.
type ListSnapshot[T any] struct {
	Items    []T
	PageInfo api.PageInfo
	Loading  bool
	Err      string
}

// List drives a paginated, filtered view. Free-text search is debounced so
// keystrokes do not each trigger a network call; non-search filter changes
// reset the page to 1 immediately, search resets it when the debounce
// fires. Loading stays true for the entire duration of every fetch,
// including refetches triggered by filter changes.
type List[T any] struct {
	mu        sync.Mutex
	fetch     ListFetchFunc[T]
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	page     int
	pageSize int
	search   string
	filters  map[string]string

	seq    uint64
	cancel context.CancelFunc

	items    []T
	pageInfo api.PageInfo
	loading  bool
	err      string
}

// ListOption is a functional option for configuring a List.
type ListOption[T any] func(*List[T])

// WithPageSize sets the fixed page size for this view.
func WithPageSize[T any](size int) ListOption[T] {
	return func(l *List[T]) {
		if size > 0 {
			l.pageSize = size
		}
	}
}

// WithSearchDebounce sets the quiet period for free-text search.
func WithSearchDebounce[T any](interval time.Duration) ListOption[T] {
	return func(l *List[T]) {
		l.debouncer = debounce.New(interval)
	}
}

// WithListLogger sets the logger for the list.
func WithListLogger[T any](logger *zap.Logger) ListOption[T] {
	return func(l *List[T]) {
		l.logger = logger
	}
}

// NewList creates a list backed by the given fetch function.
func NewList[T any](fetch ListFetchFunc[T], opts ...ListOption[T]) *List[T] {
	l := &List[T]{
		fetch:     fetch,
		page:      1,
		pageSize:  defaultPageSize,
		filters:   make(map[string]string),
		debouncer: debounce.New(defaultSearchDebounce),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load triggers the initial fetch for the current page and filters.
func (l *List[T]) Load(ctx context.Context) {
	l.mu.Lock()
	l.startFetchLocked(ctx)
	l.mu.Unlock()
}

// SetPage switches to the given 1-based page and fetches it.
func (l *List[T]) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	l.mu.Lock()
	if page == l.page {
		l.mu.Unlock()
		return
	}
	l.page = page
	l.startFetchLocked(ctx)
	l.mu.Unlock()
}

// SetFilter sets a non-search filter, resets the page to 1, and fetches
// immediately. An empty value removes the filter.
func (l *List[T]) SetFilter(ctx context.Context, key, value string) {
	l.mu.Lock()
	if value == "" {
		delete(l.filters, key)
	} else {
		l.filters[key] = value
	}
	l.page = 1
	l.startFetchLocked(ctx)
	l.mu.Unlock()
}

// SetSearch records the latest search text. The fetch (and the page reset
// to 1) fires only after the debounce quiet period elapses, so a burst of
// keystrokes results in exactly one network call for the final text.
func (l *List[T]) SetSearch(ctx context.Context, text string) {
	l.debouncer.Schedule(func() {
		l.mu.Lock()
		l.search = text
		l.page = 1
		l.startFetchLocked(ctx)
		l.mu.Unlock()
	})
}

// FlushSearch applies any pending search immediately. Used when the user
// submits the search explicitly instead of waiting out the quiet period.
func (l *List[T]) FlushSearch() {
	l.debouncer.Flush()
}

// Reload refetches the current page with the current filters.
func (l *List[T]) Reload(ctx context.Context) {
	l.mu.Lock()
	l.startFetchLocked(ctx)
	l.mu.Unlock()
}

// Snapshot returns the current observable state.
func (l *List[T]) Snapshot() ListSnapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return ListSnapshot[T]{Items: items, PageInfo: l.pageInfo, Loading: l.loading, Err: l.err}
}

// Page returns the current 1-based page the view is on.
func (l *List[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Close drops any pending debounced search and cancels an in-flight fetch.
func (l *List[T]) Close() {
	l.debouncer.Cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// startFetchLocked supersedes any in-flight fetch and launches a new one.
// Caller must hold l.mu.
func (l *List[T]) startFetchLocked(ctx context.Context) {
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.seq++
	seq := l.seq
	l.loading = true

	page := l.page
	pageSize := l.pageSize
	search := l.search
	filters := make(map[string]string, len(l.filters))
	for k, v := range l.filters {
		filters[k] = v
	}

	go func() {
		result, err := l.fetch(fetchCtx, page, pageSize, search, filters)

		l.mu.Lock()
		defer l.mu.Unlock()

		if seq != l.seq {
			l.logger.Debug("discarding stale page", zap.Int("page", page))
			return
		}
		l.loading = false
		if err != nil {
			if api.IsCanceled(err) {
				return
			}
			l.err = api.ErrorMessage(err)
			l.logger.Warn("list fetch failed", zap.Int("page", page), zap.Error(err))
			return
		}
		l.items = result.Items
		l.pageInfo = result.PageInfo
		l.err = ""
	}()
}
