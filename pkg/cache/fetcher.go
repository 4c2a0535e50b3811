package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/rs/zerolog"
)

// FetcherConfig holds caching fetcher configuration.
type FetcherConfig struct {
	// Object names the cached collection in keys and metrics
	Object string

	// TTL is how long a page stays cached
	TTL time.Duration

	// Filters are appended to every key
	Filters map[string]string
}

// CachingFetcher serves pages from the cache and falls back to the next fetcher on a miss.
type CachingFetcher[T any] struct {
	next    pagination.PageFetcher[T]
	manager *Manager
	config  FetcherConfig
	logger  zerolog.Logger
}

// NewCachingFetcher wraps next with the page cache.
func NewCachingFetcher[T any](next pagination.PageFetcher[T], manager *Manager, cfg FetcherConfig) *CachingFetcher[T] {
	if next == nil {
		panic("next fetcher cannot be nil")
	}
	if manager == nil {
		panic("cache manager cannot be nil")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &CachingFetcher[T]{
		next:    next,
		manager: manager,
		config:  cfg,
		logger:  logging.ForSource(logging.ComponentCache, cfg.Object),
	}
}

// FetchPage implements pagination.PageFetcher.
func (f *CachingFetcher[T]) FetchPage(ctx context.Context, req pagination.PageRequest) ([]T, error) {
	key := PageKey{
		Object:  f.config.Object,
		Limit:   req.Limit,
		Offset:  req.Offset,
		Filters: f.config.Filters,
	}

	entry, err := f.manager.Get(ctx, key)
	switch {
	case err == nil:
		var page []T
		if err := json.Unmarshal(entry.Records, &page); err == nil {
			f.logger.Debug().Str("key", key.String()).Int("count", entry.Count).Msg("Page cache hit")
			if page == nil {
				page = []T{}
			}
			return page, nil
		}
		f.logger.Warn().Str("key", key.String()).Msg("Undecodable cached page, refetching")
	case isCacheFailure(err):
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error, fetching directly")
	}

	page, err := f.next.FetchPage(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(page)
	if err != nil {
		f.logger.Warn().Err(err).Msg("Failed to encode page for cache")
		return page, nil
	}
	now := time.Now()
	if err := f.manager.Set(ctx, key, &PageEntry{
		Records:  data,
		Count:    len(page),
		Expires:  now.Add(f.config.TTL),
		CachedAt: now,
	}); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to cache page")
	} else {
		f.logger.Debug().Str("key", key.String()).Dur("ttl", f.config.TTL).Msg("Cached page")
	}

	return page, nil
}

// isCacheFailure reports whether a lookup error is a cache failure rather than a miss.
func isCacheFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrCacheMiss)
}

// Count implements pagination.Counter when the wrapped fetcher does.
func (f *CachingFetcher[T]) Count(ctx context.Context) (int, error) {
	counter, ok := f.next.(pagination.Counter)
	if !ok {
		return 0, fmt.Errorf("fetcher for %q cannot count records", f.config.Object)
	}
	return counter.Count(ctx)
}

// Invalidate drops every cached page of this fetcher's object.
func (f *CachingFetcher[T]) Invalidate(ctx context.Context) error {
	removed, err := f.manager.InvalidateObject(ctx, f.config.Object)
	if err != nil {
		return err
	}
	f.logger.Info().Int("removed", removed).Msg("Page cache invalidated")
	return nil
}
