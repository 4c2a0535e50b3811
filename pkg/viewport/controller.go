package viewport

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/rs/zerolog"
)

// Thresholds, in pixels.
const (
	// DefaultLoadBuffer triggers a page request when less than this remains below the fold.
	DefaultLoadBuffer = 10

	// DefaultBackToTopThreshold shows the back-to-top affordance past this scroll offset.
	DefaultBackToTopThreshold = 20
)

// Config holds controller configuration.
type Config struct {
	// PageSize sizes the viewport height hint.
	PageSize int

	// LoadOnScroll enables scroll-triggered page requests (off for load-more buttons).
	LoadOnScroll bool

	// LoadBuffer is the remaining-distance threshold for scroll loading.
	LoadBuffer float64

	// BackToTopThreshold is the scroll offset past which back-to-top shows.
	BackToTopThreshold float64

	// RowHeights estimates row height per page size.
	RowHeights RowHeightTable
}

// DefaultConfig returns the infinite-scroll configuration for pageSize.
func DefaultConfig(pageSize int) Config {
	return Config{
		PageSize:           pageSize,
		LoadOnScroll:       true,
		LoadBuffer:         DefaultLoadBuffer,
		BackToTopThreshold: DefaultBackToTopThreshold,
		RowHeights:         DefaultRowHeights,
	}
}

// ScrollResult reports what a scroll event did.
type ScrollResult struct {
	// Requested is true when a page request was issued.
	Requested bool

	// ShowBackToTop is the back-to-top visibility after the event.
	ShowBackToTop bool

	Geometry Geometry
}

// Controller turns viewport scroll events into page requests and feedback.
type Controller struct {
	viewport Viewport
	pager    Pager
	config   Config
	logger   zerolog.Logger

	mu            sync.Mutex
	showBackToTop bool
	height        float64
}

// NewController creates a controller for v. pager may be nil when LoadOnScroll is off.
func NewController(v Viewport, pager Pager, cfg Config) (*Controller, error) {
	if v == nil {
		return nil, fmt.Errorf("viewport is required")
	}
	if cfg.LoadOnScroll && pager == nil {
		return nil, fmt.Errorf("pager is required for scroll loading")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page_size must be positive (got %d)", cfg.PageSize)
	}
	if cfg.LoadBuffer <= 0 {
		cfg.LoadBuffer = DefaultLoadBuffer
	}
	if cfg.BackToTopThreshold <= 0 {
		cfg.BackToTopThreshold = DefaultBackToTopThreshold
	}
	if cfg.RowHeights == nil {
		cfg.RowHeights = DefaultRowHeights
	}
	if err := cfg.RowHeights.Validate(); err != nil {
		return nil, fmt.Errorf("row heights: %w", err)
	}

	return &Controller{
		viewport: v,
		pager:    pager,
		config:   cfg,
		logger:   logging.NewLogger(logging.ComponentViewport),
	}, nil
}

// OnScroll handles a scroll event. It updates back-to-top visibility and, with
// scroll loading on, requests the next page when the viewport is within the
// load buffer of its end and the pager is idle with more pages. The request
// runs synchronously; its error is returned as is. Requested stays false when
// the pager refused the request without fetching.
func (c *Controller) OnScroll(ctx context.Context) (ScrollResult, error) {
	g := Measure(c.viewport)

	c.mu.Lock()
	c.showBackToTop = g.ScrollTop > c.config.BackToTopThreshold
	result := ScrollResult{ShowBackToTop: c.showBackToTop, Geometry: g}
	c.mu.Unlock()

	if !c.config.LoadOnScroll {
		return result, nil
	}
	if g.Remaining() >= c.config.LoadBuffer || !c.pager.CanRequest() {
		return result, nil
	}

	c.logger.Debug().
		Float64("scroll_top", g.ScrollTop).
		Float64("remaining", g.Remaining()).
		Msg("Scrolled into load buffer")

	err := c.pager.RequestMore(ctx)
	// A request that lost a race with another trigger was never issued
	result.Requested = !pagination.IsRejected(err)
	return result, err
}

// ShowBackToTop reports whether the back-to-top affordance should be visible.
func (c *Controller) ShowBackToTop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showBackToTop
}

// ScrollToTop smoothly scrolls the viewport back to the first row.
func (c *Controller) ScrollToTop() {
	c.viewport.ScrollTo(0)
	c.mu.Lock()
	c.showBackToTop = false
	c.mu.Unlock()
}

// ApplyHeight writes the estimated viewport height. Call it after each render pass.
func (c *Controller) ApplyHeight() float64 {
	h := c.config.RowHeights.Height(c.config.PageSize)

	c.mu.Lock()
	changed := h != c.height
	c.height = h
	c.mu.Unlock()

	c.viewport.SetHeight(h)
	if changed {
		c.logger.Debug().
			Int("page_size", c.config.PageSize).
			Float64("height", h).
			Msg("Viewport height applied")
	}
	return h
}
