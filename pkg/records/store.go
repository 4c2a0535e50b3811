package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
)

// ErrInvalidWindow is returned for a negative offset or non-positive limit.
var ErrInvalidWindow = errors.New("invalid page window")

// Store holds records sorted by (SortKey, RecordID) and serves offset/limit pages.
// The sort key keeps page boundaries stable across calls.
type Store[T Record] struct {
	mu    sync.RWMutex
	items []T
}

// NewStore creates a store holding items.
func NewStore[T Record](items ...T) *Store[T] {
	s := &Store[T]{}
	s.Add(items...)
	return s
}

// Add inserts records and restores sort order.
func (s *Store[T]) Add(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := s.items[i], s.items[j]
		if a.SortKey() != b.SortKey() {
			return a.SortKey() < b.SortKey()
		}
		return a.RecordID() < b.RecordID()
	})
}

// FetchPage implements pagination.PageFetcher.
func (s *Store[T]) FetchPage(ctx context.Context, req pagination.PageRequest) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Page(req.Limit, req.Offset)
}

// Page returns up to limit records starting at offset.
func (s *Store[T]) Page(limit, offset int) ([]T, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit=%d offset=%d", ErrInvalidWindow, limit, offset)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.items) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	page := make([]T, end-offset)
	copy(page, s.items[offset:end])
	return page, nil
}

// Count implements pagination.Counter.
func (s *Store[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
