package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageFetches tracks settled page fetches by source and result (ok, empty, error)
	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_page_fetches_total",
			Help: "Total number of settled page fetches",
		},
		[]string{"source", "result"},
	)

	// PageFetchDuration tracks how long a page fetch takes to settle
	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lazylist_page_fetch_duration_seconds",
			Help:    "Page fetch duration in seconds by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"source"},
	)

	// RecordsLoaded tracks records merged into loaders
	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_records_loaded_total",
			Help: "Total number of records merged into lazy lists",
		},
		[]string{"source"},
	)

	// RejectedRequests tracks page requests refused by the guard
	RejectedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazylist_rejected_requests_total",
			Help: "Total number of page requests refused without a fetch",
		},
		[]string{"source", "reason"}, // "in_flight", "no_more_pages", "disposed"
	)
)

func rejectionReason(err error) string {
	switch err {
	case ErrFetchInFlight:
		return "in_flight"
	case ErrNoMorePages:
		return "no_more_pages"
	case ErrDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
