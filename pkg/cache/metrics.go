package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks page cache hits by object
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_cache_hits_total",
			Help: "Total number of page cache hits",
		},
		[]string{"object"},
	)

	// CacheMisses tracks page cache misses by object
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_cache_misses_total",
			Help: "Total number of page cache misses",
		},
		[]string{"object"},
	)

	// CacheStoredBytes tracks bytes written to the cache
	CacheStoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lazylist_cache_stored_bytes",
			Help: "Total bytes of page entries written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "invalidate"
	)
)
