package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listItem struct {
	ID string
}

type listCall struct {
	page     int
	pageSize int
	search   string
	filters  map[string]string
}

// recordingFetch captures every page request the list issues.
type recordingFetch struct {
	mu    sync.Mutex
	calls []listCall
}

func (f *recordingFetch) fetch(ctx context.Context, page, pageSize int, search string, filters map[string]string) (api.Page[listItem], error) {
	f.mu.Lock()
	f.calls = append(f.calls, listCall{page: page, pageSize: pageSize, search: search, filters: filters})
	f.mu.Unlock()
	return api.Page[listItem]{
		Items:    []listItem{{ID: "item"}},
		PageInfo: api.PageInfo{CurrentPage: page, TotalPages: 5, PageSize: pageSize},
	}, nil
}

func (f *recordingFetch) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *recordingFetch) last() listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestList_SearchBurstFetchesOnce(t *testing.T) {
	rec := &recordingFetch{}
	l := NewList(rec.fetch, WithSearchDebounce[listItem](40*time.Millisecond))
	defer l.Close()
	ctx := context.Background()

	l.SetPage(ctx, 3)
	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 5*time.Millisecond)

	for _, text := range []string{"a", "ab", "abc"} {
		l.SetSearch(ctx, text)
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return rec.count() == 2
	}, time.Second, 5*time.Millisecond)

	// No further fetch once the burst has settled.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 2, rec.count())

	last := rec.last()
	assert.Equal(t, "abc", last.search)
	assert.Equal(t, 1, last.page)
	assert.Equal(t, 1, l.Page())
}

func TestList_FlushSearchSkipsQuietPeriod(t *testing.T) {
	rec := &recordingFetch{}
	l := NewList(rec.fetch, WithSearchDebounce[listItem](time.Hour))
	defer l.Close()

	l.SetSearch(context.Background(), "shoes")
	l.FlushSearch()

	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "shoes", rec.last().search)
}

func TestList_SetFilterResetsPageAndFetchesImmediately(t *testing.T) {
	rec := &recordingFetch{}
	l := NewList(rec.fetch)
	defer l.Close()
	ctx := context.Background()

	l.SetPage(ctx, 4)
	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 5*time.Millisecond)

	l.SetFilter(ctx, "status", "active")
	require.Eventually(t, func() bool {
		return rec.count() == 2
	}, time.Second, 5*time.Millisecond)

	last := rec.last()
	assert.Equal(t, 1, last.page)
	assert.Equal(t, "active", last.filters["status"])

	// Removing the filter fetches again without it.
	l.SetFilter(ctx, "status", "")
	require.Eventually(t, func() bool {
		return rec.count() == 3
	}, time.Second, 5*time.Millisecond)
	assert.NotContains(t, rec.last().filters, "status")
}

func TestList_SamePageIsNoOp(t *testing.T) {
	rec := &recordingFetch{}
	l := NewList(rec.fetch)
	defer l.Close()
	ctx := context.Background()

	l.Load(ctx)
	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 5*time.Millisecond)

	l.SetPage(ctx, 1)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestList_LoadingSpansWholeFetch(t *testing.T) {
	gate := make(chan struct{})
	fetch := func(ctx context.Context, page, pageSize int, search string, filters map[string]string) (api.Page[listItem], error) {
		<-gate
		return api.Page[listItem]{Items: []listItem{{ID: "x"}}}, nil
	}
	l := NewList(fetch)
	defer l.Close()

	l.Load(context.Background())
	assert.True(t, l.Snapshot().Loading)

	close(gate)
	require.Eventually(t, func() bool {
		s := l.Snapshot()
		return !s.Loading && len(s.Items) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestList_ErrorSurfacedAndClearedOnNextSuccess(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	fetch := func(ctx context.Context, page, pageSize int, search string, filters map[string]string) (api.Page[listItem], error) {
		mu.Lock()
		failing := fail
		mu.Unlock()
		if failing {
			return api.Page[listItem]{}, &api.APIError{StatusCode: 500, Message: "list unavailable"}
		}
		return api.Page[listItem]{Items: []listItem{{ID: "x"}}}, nil
	}
	l := NewList(fetch)
	defer l.Close()
	ctx := context.Background()

	mu.Lock()
	fail = true
	mu.Unlock()
	l.Load(ctx)
	require.Eventually(t, func() bool {
		return l.Snapshot().Err == "list unavailable"
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	fail = false
	mu.Unlock()
	l.Reload(ctx)
	require.Eventually(t, func() bool {
		s := l.Snapshot()
		return s.Err == "" && len(s.Items) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestList_DefaultPageSizeApplied(t *testing.T) {
	rec := &recordingFetch{}
	l := NewList(rec.fetch, WithPageSize[listItem](25))
	defer l.Close()

	l.Load(context.Background())
	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 25, rec.last().pageSize)
}
