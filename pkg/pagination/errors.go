package pagination

import (
	"errors"
	"fmt"
)

// Guard errors returned when a page request is refused without calling the fetcher.
// Callers driving the loader from UI triggers treat them as no-ops.
var (
	// ErrFetchInFlight is returned while a previous page is still loading.
	ErrFetchInFlight = errors.New("page fetch already in flight")

	// ErrNoMorePages is returned once the last page has been merged.
	ErrNoMorePages = errors.New("no more pages")

	// ErrDisposed is returned by a loader whose owner has been destroyed.
	ErrDisposed = errors.New("loader disposed")
)

// ErrIncompleteSet is returned by BatchFetcher.FetchAll when the pages it
// received do not add up to the counted total.
var ErrIncompleteSet = errors.New("incomplete result set")

// FetchError is the single failure kind of a page fetch.
// Offset, accumulated rows and hasMore are left untouched when it is returned.
type FetchError struct {
	Request PageRequest
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page (%s): %v", e.Request, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRejected reports whether err is one of the guard errors, i.e. the request
// was a no-op rather than a failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrFetchInFlight) ||
		errors.Is(err, ErrNoMorePages) ||
		errors.Is(err, ErrDisposed)
}
