// Package cache provides a Redis-backed page cache for lazy list sources.
//
// Pages are cached per object and offset/limit window:
//
//   - Deterministic keys (lazylist:<object>:limit=<n>:offset=<n>[:filters])
//   - Entries expire through Redis TTL and an explicit Expires field
//   - Cache failures never fail a fetch; the underlying source is used instead
//   - Whole objects can be invalidated after writes
//   - Prometheus metrics for observability
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	contacts, _ := source.New[records.Contact](source.DefaultConfig(url, "contacts"))
//	fetcher := cache.NewCachingFetcher[records.Contact](contacts, manager, cache.FetcherConfig{
//		Object: "contacts",
//		TTL:    time.Minute,
//	})
//
//	loader, _ := pagination.NewLoader[records.Contact](fetcher, pagination.DefaultConfig())
//
// # Consistency
//
// Offset pagination relies on a stable order. Cached pages are snapshots, so
// a write between two page loads can show up as a duplicate or a gap until the
// entries expire. Call Manager.InvalidateObject after writes to an object.
//
// # Metrics
//
//   - lazylist_cache_hits_total{object} - Page cache hits
//   - lazylist_cache_misses_total{object} - Page cache misses
//   - lazylist_cache_errors_total{operation} - Cache operation errors
//   - lazylist_cache_stored_bytes - Bytes written to the cache
package cache
