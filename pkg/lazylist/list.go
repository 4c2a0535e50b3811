// Package lazylist assembles a lazily loaded record list from a page loader
// and a viewport controller.
//
// A List is one variant: a trigger (load-more button or infinite scroll), a
// layout (table or grid) and a record type. Its lifecycle follows the host
// component: Mount loads the first page, LoadMore and OnScroll load the next
// ones, Rendered runs after each render pass and Destroy drops the loader so
// that a late page is discarded.
package lazylist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/Sternrassler/lazy-list-loader/pkg/viewport"
	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("list already mounted")

	// ErrNotMounted is returned when a page is requested before Mount.
	ErrNotMounted = errors.New("list not mounted")

	// ErrDestroyed is returned by operations on a destroyed list.
	ErrDestroyed = errors.New("list destroyed")
)

// List is a lazily loaded record list.
type List[T any] struct {
	config     Config
	loader     *pagination.Loader[T]
	controller *viewport.Controller
	resident   *pagination.CachedSource[T]
	logger     zerolog.Logger

	mu        sync.Mutex
	mounted   bool
	destroyed bool
}

// New creates a list paging through fetcher.
//
// With Config.Resident the full result set is loaded once through a
// pagination.BatchFetcher, which needs a fetcher that can also count.
func New[T any](fetcher pagination.PageFetcher[T], v viewport.Viewport, cfg Config) (*List[T], error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if !cfg.Resident {
		return build[T](fetcher, nil, v, cfg)
	}

	counting, ok := fetcher.(pagination.CountingFetcher[T])
	if !ok {
		return nil, fmt.Errorf("resident list needs a fetcher that can count")
	}
	batch := pagination.NewBatchFetcher(counting, pagination.DefaultBatchConfig())
	resident := pagination.NewCachedSource(pagination.LoadFunc[T](batch.FetchAll))
	return build[T](resident, resident, v, cfg)
}

// NewResident creates a list over a result set loaded once by load.
func NewResident[T any](load pagination.LoadFunc[T], v viewport.Viewport, cfg Config) (*List[T], error) {
	if load == nil {
		return nil, fmt.Errorf("load function is required")
	}
	cfg.Resident = true
	resident := pagination.NewCachedSource(load)
	return build[T](resident, resident, v, cfg)
}

func build[T any](fetcher pagination.PageFetcher[T], resident *pagination.CachedSource[T], v viewport.Viewport, cfg Config) (*List[T], error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader, err := pagination.NewLoader(fetcher, pagination.Config{
		PageSize: cfg.PageSize,
		Source:   cfg.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	controller, err := viewport.NewController(v, loader, cfg.viewportConfig())
	if err != nil {
		return nil, fmt.Errorf("create viewport controller: %w", err)
	}

	return &List[T]{
		config:     cfg,
		loader:     loader,
		controller: controller,
		resident:   resident,
		logger: logging.ForSource(logging.ComponentList, cfg.Source).With().
			Str("trigger", string(cfg.Trigger)).
			Str("layout", string(cfg.Layout)).
			Logger(),
	}, nil
}

// Mount loads the first page. A failed first page leaves the list mounted
// and empty; LoadMore or a scroll retries it.
func (l *List[T]) Mount(ctx context.Context) ([]pagination.Row[T], error) {
	l.mu.Lock()
	switch {
	case l.destroyed:
		l.mu.Unlock()
		return nil, ErrDestroyed
	case l.mounted:
		l.mu.Unlock()
		return nil, ErrAlreadyMounted
	}
	l.mounted = true
	l.mu.Unlock()

	l.logger.Info().Int("page_size", l.config.PageSize).Msg("Mounted")
	return l.next(ctx)
}

// LoadMore loads the next page on an explicit user action. It returns no rows
// and no error while a page is in flight or after the last page.
func (l *List[T]) LoadMore(ctx context.Context) ([]pagination.Row[T], error) {
	if err := l.live(); err != nil {
		return nil, err
	}
	return l.next(ctx)
}

// OnScroll handles a scroll event of the viewport. Only scroll lists load
// pages from it; every list updates back-to-top visibility.
func (l *List[T]) OnScroll(ctx context.Context) (viewport.ScrollResult, error) {
	if err := l.live(); err != nil {
		return viewport.ScrollResult{}, err
	}
	result, err := l.controller.OnScroll(ctx)
	if pagination.IsRejected(err) {
		l.logger.Debug().Err(err).Msg("Scroll request ignored")
		return result, nil
	}
	return result, err
}

func (l *List[T]) next(ctx context.Context) ([]pagination.Row[T], error) {
	rows, err := l.loader.RequestNextPage(ctx)
	if pagination.IsRejected(err) {
		l.logger.Debug().Err(err).Msg("Page request ignored")
		return nil, nil
	}
	return rows, err
}

func (l *List[T]) live() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.destroyed:
		return ErrDestroyed
	case !l.mounted:
		return ErrNotMounted
	default:
		return nil
	}
}

// Rendered applies the viewport height estimate; call it after each render pass.
func (l *List[T]) Rendered() float64 {
	return l.controller.ApplyHeight()
}

// ScrollToTop scrolls the viewport back to the first row.
func (l *List[T]) ScrollToTop() {
	l.controller.ScrollToTop()
}

// ShowBackToTop reports whether the back-to-top affordance is visible.
func (l *List[T]) ShowBackToTop() bool {
	return l.controller.ShowBackToTop()
}

// Rows returns a copy of the loaded rows.
func (l *List[T]) Rows() []pagination.Row[T] {
	return l.loader.Rows()
}

// Loading reports whether a page is in flight.
func (l *List[T]) Loading() bool {
	return l.loader.State().Loading
}

// AllLoaded reports whether the last page has been loaded.
func (l *List[T]) AllLoaded() bool {
	return !l.loader.State().HasMore
}

// Total returns the size of the resident result set once it is loaded.
func (l *List[T]) Total() (int, bool) {
	if l.resident == nil {
		return 0, false
	}
	return l.resident.Total()
}

// Config returns the effective configuration.
func (l *List[T]) Config() Config {
	return l.config
}

// Destroy disposes the loader. A page still in flight is discarded when it
// arrives. Destroy is idempotent.
func (l *List[T]) Destroy() {
	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return
	}
	l.destroyed = true
	l.mu.Unlock()

	l.loader.Dispose()
	l.logger.Info().Int("rows", l.loader.Len()).Msg("Destroyed")
}
