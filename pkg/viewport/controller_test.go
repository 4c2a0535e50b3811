package viewport

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewport struct {
	top, scrollHeight, clientHeight float64
	scrolledTo                      []float64
	height                          float64
}

func (f *fakeViewport) ScrollTop() float64    { return f.top }
func (f *fakeViewport) ScrollHeight() float64 { return f.scrollHeight }
func (f *fakeViewport) ClientHeight() float64 { return f.clientHeight }
func (f *fakeViewport) ScrollTo(position float64) {
	f.scrolledTo = append(f.scrolledTo, position)
	f.top = position
}
func (f *fakeViewport) SetHeight(px float64) { f.height = px }

type fakePager struct {
	can      bool
	requests int
	err      error
}

func (f *fakePager) CanRequest() bool { return f.can }
func (f *fakePager) RequestMore(ctx context.Context) error {
	f.requests++
	return f.err
}

func newController(t *testing.T, vp *fakeViewport, pager Pager, cfg Config) *Controller {
	t.Helper()
	c, err := NewController(vp, pager, cfg)
	require.NoError(t, err)
	return c
}

func TestNewController_Validation(t *testing.T) {
	vp := &fakeViewport{}

	_, err := NewController(nil, &fakePager{}, DefaultConfig(5))
	assert.Error(t, err)

	_, err = NewController(vp, nil, DefaultConfig(5))
	assert.Error(t, err, "scroll loading needs a pager")

	cfg := DefaultConfig(5)
	cfg.LoadOnScroll = false
	_, err = NewController(vp, nil, cfg)
	assert.NoError(t, err, "button variant has no pager")

	_, err = NewController(vp, &fakePager{}, DefaultConfig(0))
	assert.Error(t, err)

	cfg = DefaultConfig(5)
	cfg.RowHeights = RowHeightTable{{MaxPageSize: 10, RowHeight: 40}}
	_, err = NewController(vp, &fakePager{}, cfg)
	assert.Error(t, err, "table without catch-all bucket")
}

func TestController_OnScroll(t *testing.T) {
	tests := []struct {
		name          string
		top           float64
		canRequest    bool
		wantRequested bool
		wantBackToTop bool
	}{
		// scrollHeight 500, clientHeight 200: remaining = 300 - top
		{"far from bottom", 100, true, false, true},
		{"exactly at buffer", 290, true, false, true},
		{"inside buffer", 291, true, true, true},
		{"at bottom", 300, true, true, true},
		{"inside buffer while loading", 295, false, false, true},
		{"near top", 20, true, false, false},
		{"past back-to-top threshold", 21, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := &fakeViewport{top: tt.top, scrollHeight: 500, clientHeight: 200}
			pager := &fakePager{can: tt.canRequest}
			c := newController(t, vp, pager, DefaultConfig(5))

			res, err := c.OnScroll(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantRequested, res.Requested)
			assert.Equal(t, tt.wantBackToTop, res.ShowBackToTop)
			assert.Equal(t, tt.wantBackToTop, c.ShowBackToTop())
			if tt.wantRequested {
				assert.Equal(t, 1, pager.requests)
			} else {
				assert.Zero(t, pager.requests)
			}
		})
	}
}

func TestController_OnScroll_ReturnsPagerError(t *testing.T) {
	vp := &fakeViewport{top: 300, scrollHeight: 500, clientHeight: 200}
	boom := errors.New("boom")
	c := newController(t, vp, &fakePager{can: true, err: boom}, DefaultConfig(5))

	res, err := c.OnScroll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, res.Requested)
}

func TestController_OnScroll_RacedRequestIsNotReported(t *testing.T) {
	vp := &fakeViewport{top: 300, scrollHeight: 500, clientHeight: 200}
	pager := &fakePager{can: true, err: pagination.ErrFetchInFlight}
	c := newController(t, vp, pager, DefaultConfig(5))

	res, err := c.OnScroll(context.Background())
	assert.ErrorIs(t, err, pagination.ErrFetchInFlight)
	assert.False(t, res.Requested)
	assert.Equal(t, 1, pager.requests)
}

func TestController_ButtonVariantNeverLoadsOnScroll(t *testing.T) {
	vp := &fakeViewport{top: 300, scrollHeight: 500, clientHeight: 200}
	pager := &fakePager{can: true}
	cfg := DefaultConfig(5)
	cfg.LoadOnScroll = false
	c := newController(t, vp, pager, cfg)

	res, err := c.OnScroll(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Requested)
	assert.Zero(t, pager.requests)
	assert.True(t, res.ShowBackToTop)
}

func TestController_ScrollToTop(t *testing.T) {
	vp := &fakeViewport{top: 250, scrollHeight: 500, clientHeight: 200}
	c := newController(t, vp, &fakePager{}, DefaultConfig(5))

	_, err := c.OnScroll(context.Background())
	require.NoError(t, err)
	require.True(t, c.ShowBackToTop())

	c.ScrollToTop()
	assert.Equal(t, []float64{0}, vp.scrolledTo)
	assert.False(t, c.ShowBackToTop())
}

func TestController_ApplyHeight(t *testing.T) {
	tests := []struct {
		pageSize int
		want     float64
	}{
		{5, 200},
		{10, 400},
		{20, 660},
		{50, 1650},
	}

	for _, tt := range tests {
		vp := &fakeViewport{}
		c := newController(t, vp, &fakePager{}, DefaultConfig(tt.pageSize))

		got := c.ApplyHeight()
		assert.Equal(t, tt.want, got, "page size %d", tt.pageSize)
		assert.Equal(t, tt.want, vp.height)
	}
}

func TestController_CustomRowHeights(t *testing.T) {
	vp := &fakeViewport{}
	cfg := DefaultConfig(8)
	cfg.RowHeights = RowHeightTable{
		{MaxPageSize: 0, RowHeight: 20},
		{MaxPageSize: 8, RowHeight: 50},
		{MaxPageSize: 4, RowHeight: 60},
	}
	c := newController(t, vp, &fakePager{}, cfg)

	assert.Equal(t, 400.0, c.ApplyHeight())
}
