package lazylist

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/Sternrassler/lazy-list-loader/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeViewport grows with the rendered rows like a scroll container would.
type fakeViewport struct {
	mu           sync.Mutex
	top          float64
	rows         int
	rowHeight    float64
	clientHeight float64
	height       float64
	scrolledTo   []float64
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{rowHeight: 40, clientHeight: 100}
}

func (f *fakeViewport) ScrollTop() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.top
}

func (f *fakeViewport) ScrollHeight() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return float64(f.rows) * f.rowHeight
}

func (f *fakeViewport) ClientHeight() float64 { return f.clientHeight }

func (f *fakeViewport) ScrollTo(position float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.top = position
	f.scrolledTo = append(f.scrolledTo, position)
}

func (f *fakeViewport) SetHeight(px float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.height = px
}

func (f *fakeViewport) render(rows int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
}

func (f *fakeViewport) scrollToBottom() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.top = float64(f.rows)*f.rowHeight - f.clientHeight
}

// countingStore counts the calls reaching a record store.
type countingStore[T records.Record] struct {
	*records.Store[T]
	mu      sync.Mutex
	fetches int
	counts  int
}

func (s *countingStore[T]) FetchPage(ctx context.Context, req pagination.PageRequest) ([]T, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	return s.Store.FetchPage(ctx, req)
}

func (s *countingStore[T]) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.counts++
	s.mu.Unlock()
	return s.Store.Count(ctx)
}

func contactStore(n int) *countingStore[records.Contact] {
	return &countingStore[records.Contact]{Store: records.NewStore(records.SeedContacts(n)...)}
}

func serials[T any](rows []pagination.Row[T]) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.SerialNumber
	}
	return out
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default scroll grid", func(c *Config) {}, false},
		{"zero page size defaults", func(c *Config) { c.PageSize = 0 }, false},
		{"unknown trigger", func(c *Config) { c.Trigger = "hover" }, true},
		{"unknown layout", func(c *Config) { c.Layout = "cards" }, true},
		{"page size too large", func(c *Config) { c.PageSize = 201 }, true},
		{"negative page size", func(c *Config) { c.PageSize = -1 }, true},
		{"missing source", func(c *Config) { c.Source = "" }, true},
		{"negative buffer", func(c *Config) { c.LoadBuffer = -1 }, true},
		{"row heights without catch-all", func(c *Config) {
			c.RowHeights = RowHeightsFor(LayoutGrid)[:1]
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(TriggerScroll, LayoutGrid, records.ObjectContacts)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_Validation(t *testing.T) {
	store := contactStore(3)
	cfg := DefaultConfig(TriggerButton, LayoutTable, records.ObjectContacts)

	_, err := New[records.Contact](nil, newFakeViewport(), cfg)
	assert.Error(t, err)

	_, err = New[records.Contact](store, nil, cfg)
	assert.Error(t, err, "viewport is required")

	plain := pagination.FetchFunc[records.Contact](store.Store.FetchPage)
	cfg.Resident = true
	_, err = New[records.Contact](plain, newFakeViewport(), cfg)
	assert.Error(t, err, "resident list needs a counting fetcher")

	_, err = NewResident[records.Contact](nil, newFakeViewport(), cfg)
	assert.Error(t, err)
}

func TestScrollList_LoadsTwelveContacts(t *testing.T) {
	store := contactStore(12)
	vp := newFakeViewport()
	list, err := New[records.Contact](store, vp, DefaultConfig(TriggerScroll, LayoutGrid, records.ObjectContacts))
	require.NoError(t, err)
	ctx := context.Background()

	rows, err := list.Mount(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(1, 5), serials(rows))
	vp.render(len(list.Rows()))
	assert.Equal(t, 200.0, list.Rendered())

	// Far from the bottom: no fetch
	res, err := list.OnScroll(ctx)
	require.NoError(t, err)
	assert.False(t, res.Requested)
	assert.Equal(t, 1, store.fetches)

	for !list.AllLoaded() {
		vp.scrollToBottom()
		res, err := list.OnScroll(ctx)
		require.NoError(t, err)
		require.True(t, res.Requested)
		vp.render(len(list.Rows()))
	}

	assert.Equal(t, seq(1, 12), serials(list.Rows()))
	assert.Equal(t, 3, store.fetches)
	assert.True(t, list.ShowBackToTop())

	// Terminal: scrolling at the bottom fetches nothing
	vp.scrollToBottom()
	res, err = list.OnScroll(ctx)
	require.NoError(t, err)
	assert.False(t, res.Requested)
	assert.Equal(t, 3, store.fetches)

	list.ScrollToTop()
	assert.False(t, list.ShowBackToTop())
	assert.Equal(t, []float64{0}, vp.scrolledTo)
}

func TestButtonList_IgnoresScroll(t *testing.T) {
	store := &countingStore[records.Account]{Store: records.NewStore(records.SeedAccounts(7)...)}
	vp := newFakeViewport()
	list, err := New[records.Account](store, vp, DefaultConfig(TriggerButton, LayoutTable, records.ObjectAccounts))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = list.Mount(ctx)
	require.NoError(t, err)
	vp.render(len(list.Rows()))
	vp.scrollToBottom()

	res, err := list.OnScroll(ctx)
	require.NoError(t, err)
	assert.False(t, res.Requested)
	assert.Equal(t, 1, store.fetches)

	rows, err := list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(6, 7), serials(rows))
	assert.True(t, list.AllLoaded())

	// Load more after the end is a no-op
	rows, err = list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 2, store.fetches)
}

func TestList_EmptyService(t *testing.T) {
	store := contactStore(0)
	list, err := New[records.Contact](store, newFakeViewport(), DefaultConfig(TriggerButton, LayoutTable, records.ObjectContacts))
	require.NoError(t, err)

	rows, err := list.Mount(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, list.AllLoaded())
	assert.Empty(t, list.Rows())
}

func TestList_Lifecycle(t *testing.T) {
	list, err := New[records.Contact](contactStore(12), newFakeViewport(), DefaultConfig(TriggerButton, LayoutGrid, records.ObjectContacts))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = list.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrNotMounted)
	_, err = list.OnScroll(ctx)
	assert.ErrorIs(t, err, ErrNotMounted)

	_, err = list.Mount(ctx)
	require.NoError(t, err)
	_, err = list.Mount(ctx)
	assert.ErrorIs(t, err, ErrAlreadyMounted)

	list.Destroy()
	list.Destroy()

	_, err = list.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrDestroyed)
	_, err = list.Mount(ctx)
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.Len(t, list.Rows(), 5)
}

func TestList_FailedPageIsRetried(t *testing.T) {
	store := records.NewStore(records.SeedContacts(12)...)
	calls := 0
	fetch := pagination.FetchFunc[records.Contact](func(ctx context.Context, req pagination.PageRequest) ([]records.Contact, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("service unavailable")
		}
		return store.FetchPage(ctx, req)
	})

	list, err := New[records.Contact](fetch, newFakeViewport(), DefaultConfig(TriggerButton, LayoutTable, records.ObjectContacts))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = list.Mount(ctx)
	require.NoError(t, err)

	_, err = list.LoadMore(ctx)
	var fetchErr *pagination.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 5, fetchErr.Request.Offset)
	assert.Len(t, list.Rows(), 5)
	assert.False(t, list.AllLoaded())
	assert.False(t, list.Loading())

	rows, err := list.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(6, 10), serials(rows))
}

func TestList_DestroyDropsLatePage(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := pagination.FetchFunc[records.Contact](func(ctx context.Context, req pagination.PageRequest) ([]records.Contact, error) {
		close(started)
		<-release
		return records.SeedContacts(5), nil
	})

	list, err := New[records.Contact](fetch, newFakeViewport(), DefaultConfig(TriggerScroll, LayoutTable, records.ObjectContacts))
	require.NoError(t, err)

	type result struct {
		rows []pagination.Row[records.Contact]
		err  error
	}
	done := make(chan result, 1)
	go func() {
		rows, err := list.Mount(context.Background())
		done <- result{rows, err}
	}()

	<-started
	assert.True(t, list.Loading())
	list.Destroy()
	close(release)

	res := <-done
	assert.NoError(t, res.err)
	assert.Empty(t, res.rows)
	assert.Empty(t, list.Rows())
	assert.False(t, list.Loading())
}

func TestResidentList_LoadsOnce(t *testing.T) {
	store := contactStore(12)
	cfg := DefaultConfig(TriggerButton, LayoutGrid, records.ObjectContacts)
	cfg.Resident = true
	list, err := New[records.Contact](store, newFakeViewport(), cfg)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := list.Total()
	assert.False(t, ok, "total unknown before the first load")

	_, err = list.Mount(ctx)
	require.NoError(t, err)
	for !list.AllLoaded() {
		_, err := list.LoadMore(ctx)
		require.NoError(t, err)
	}

	total, ok := list.Total()
	assert.True(t, ok)
	assert.Equal(t, 12, total)
	assert.Equal(t, seq(1, 12), serials(list.Rows()))
	assert.Equal(t, 1, store.counts)
	assert.Equal(t, 1, store.fetches, "one batch page covers the whole set")
}

func TestNewResident_ExactMultiple(t *testing.T) {
	loads := 0
	load := func(ctx context.Context) ([]records.Account, error) {
		loads++
		return records.SeedAccounts(10), nil
	}
	list, err := NewResident[records.Account](load, newFakeViewport(), DefaultConfig(TriggerButton, LayoutTable, records.ObjectAccounts))
	require.NoError(t, err)
	assert.True(t, list.Config().Resident)
	ctx := context.Background()

	_, err = list.Mount(ctx)
	require.NoError(t, err)
	_, err = list.LoadMore(ctx)
	require.NoError(t, err)

	// The known total ends the list without an extra empty page
	assert.True(t, list.AllLoaded())
	assert.Len(t, list.Rows(), 10)
	assert.Equal(t, 1, loads)
}

func TestList_RenderedHeight(t *testing.T) {
	tests := []struct {
		name     string
		layout   Layout
		pageSize int
		want     float64
	}{
		{"table small page", LayoutTable, 5, 200},
		{"table large page", LayoutTable, 20, 800},
		{"grid small page", LayoutGrid, 10, 400},
		{"grid large page", LayoutGrid, 20, 660},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := newFakeViewport()
			cfg := DefaultConfig(TriggerScroll, tt.layout, records.ObjectContacts)
			cfg.PageSize = tt.pageSize
			list, err := New[records.Contact](contactStore(1), vp, cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.want, list.Rendered())
			assert.Equal(t, tt.want, vp.height)
		})
	}
}
