// Package pagination implements offset/limit lazy loading of record lists.
//
// A Loader accumulates pages from a PageFetcher one request at a time. Each
// successful fetch appends rows to the accumulated list and stamps every row
// with a serial number (its 1-based position at merge time). A fetch that
// returns fewer records than the page size marks the list as fully loaded.
//
// Example usage:
//
//	loader, err := pagination.NewLoader[records.Contact](fetcher, pagination.DefaultConfig())
//	rows, err := loader.RequestNextPage(ctx)
//	if errors.Is(err, pagination.ErrFetchInFlight) {
//		// another page is still loading, nothing to do
//	}
//
// The loader:
//   - Accepts a request only while idle with more pages available
//   - Marks itself loading before the fetch is issued
//   - Merges results only after the fetch settles
//   - Leaves hasMore untouched when a fetch fails so the caller can retry
//   - Drops late results once disposed
//
// The transitions themselves are a pure function (Transition) so they can be
// exercised without a fetcher.
//
// For small datasets, CachedSource loads the whole result set once and serves
// pages by slicing it. BatchFetcher fills such a cache with parallel page
// requests.
package pagination
