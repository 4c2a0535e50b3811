package pagination

import "context"

// PageFetcher is the paged-fetch service a Loader pulls records from.
//
// FetchPage returns at most req.Limit records starting at req.Offset, in a
// stable order. Returning exactly req.Limit records is the only signal that
// more pages may follow.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, req PageRequest) ([]T, error)
}

// FetchFunc adapts a plain function to PageFetcher.
type FetchFunc[T any] func(ctx context.Context, req PageRequest) ([]T, error)

// FetchPage implements PageFetcher.
func (f FetchFunc[T]) FetchPage(ctx context.Context, req PageRequest) ([]T, error) {
	return f(ctx, req)
}

// Counter is implemented by sources that can report the size of the full result set.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Totaler is implemented by sources that already know the size of the full
// result set after a fetch. A Loader prefers it over the short-page rule.
type Totaler interface {
	Total() (total int, known bool)
}
