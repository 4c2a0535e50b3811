package pagination

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/rs/zerolog"
)

// LoadFunc loads a complete result set.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// CachedSource serves pages from a result set loaded once and kept resident.
//
// The first FetchPage loads everything; later pages are offset slices of the
// cached set and never reach the backing service. Because the total is known,
// a Loader over a CachedSource ends exactly when the visible count reaches it.
// A failed load is not cached, so the next request retries it.
type CachedSource[T any] struct {
	load   LoadFunc[T]
	logger zerolog.Logger

	mu     sync.Mutex
	all    []T
	loaded bool
}

// NewCachedSource creates a resident-cache source backed by load.
func NewCachedSource[T any](load LoadFunc[T]) *CachedSource[T] {
	if load == nil {
		panic("load function cannot be nil")
	}
	return &CachedSource[T]{
		load:   load,
		logger: logging.NewLogger(logging.ComponentResident),
	}
}

// FetchPage implements PageFetcher.
func (c *CachedSource[T]) FetchPage(ctx context.Context, req PageRequest) ([]T, error) {
	if req.Limit <= 0 || req.Offset < 0 {
		return nil, fmt.Errorf("invalid page request (%s)", req)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		all, err := c.load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load result set: %w", err)
		}
		c.all = all
		c.loaded = true
		c.logger.Info().Int("total", len(all)).Msg("Result set cached")
	}

	if req.Offset >= len(c.all) {
		return []T{}, nil
	}
	end := req.Offset + req.Limit
	if end > len(c.all) {
		end = len(c.all)
	}
	page := make([]T, end-req.Offset)
	copy(page, c.all[req.Offset:end])
	return page, nil
}

// Total implements Totaler. The total is unknown until the first load succeeds.
func (c *CachedSource[T]) Total() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.all), c.loaded
}

// Invalidate drops the cached set; the next FetchPage reloads it.
func (c *CachedSource[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = nil
	c.loaded = false
}
