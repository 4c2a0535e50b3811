package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BatchConfig holds batch fetcher configuration
type BatchConfig struct {
	// MaxConcurrency is the maximum number of parallel page requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// PageSize is the limit of each underlying request
	PageSize int
}

// DefaultBatchConfig returns a default configuration for loading full result sets
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
		PageSize:       200,
	}
}

// CountingFetcher is a page source that can also count its result set
type CountingFetcher[T any] interface {
	PageFetcher[T]
	Counter
}

// pageResult is the outcome of fetching a single page
type pageResult[T any] struct {
	index   int
	records []T
	err     error
}

// BatchFetcher loads a complete result set with parallel page requests
type BatchFetcher[T any] struct {
	fetcher CountingFetcher[T]
	config  BatchConfig
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher CountingFetcher[T], config BatchConfig) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.PageSize <= 0 {
		config.PageSize = 200
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAll counts the result set, then fetches every page with a worker pool
// and returns the records in offset order. Any page failure, or a record count
// that differs from the counted total, fails the whole load with no records.
func (bf *BatchFetcher[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()

	total, err := bf.fetcher.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if total <= 0 {
		return []T{}, nil
	}

	size := bf.config.PageSize
	totalPages := (total + size - 1) / size

	log.Info().
		Int("total", total).
		Int("total_pages", totalPages).
		Msg("Starting parallel result set fetch")

	// First page is fetched inline, like any single-page set
	first, err := bf.fetcher.FetchPage(ctx, PageRequest{Limit: size, Offset: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	if totalPages == 1 {
		if err := checkComplete(len(first), total); err != nil {
			return nil, err
		}
		log.Info().
			Int("records", len(first)).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return first, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pages := make([][]T, totalPages)
	pages[0] = first

	pageQueue := make(chan int, totalPages)
	results := make(chan pageResult[T], totalPages)

	for i := 1; i < totalPages; i++ {
		pageQueue <- i
	}
	close(pageQueue)

	workers := bf.config.MaxConcurrency
	if workers > totalPages-1 {
		workers = totalPages - 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go bf.worker(ctx, pageQueue, results, &wg, i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	fetched := 1
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		pages[res.index] = res.records
		fetched++
	}

	// Workers that saw a cancelled context return without a result
	if firstErr == nil && fetched < totalPages {
		firstErr = ctx.Err()
		if firstErr == nil {
			firstErr = fmt.Errorf("missing pages")
		}
	}

	if firstErr != nil {
		log.Warn().
			Err(firstErr).
			Int("fetched_pages", fetched).
			Int("total_pages", totalPages).
			Msg("Result set fetch aborted")
		return nil, fmt.Errorf("fetch result set (%d/%d pages): %w", fetched, totalPages, firstErr)
	}

	all := make([]T, 0, total)
	for _, page := range pages {
		all = append(all, page...)
	}
	if err := checkComplete(len(all), total); err != nil {
		return nil, err
	}

	log.Info().
		Int("records", len(all)).
		Int("pages", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}

// checkComplete fails a load whose record count differs from the counted total.
// Short pages (a service capping the limit, or a set that shrank mid-load) and
// long ones would otherwise be cached as the complete set.
func checkComplete(received, total int) error {
	if received != total {
		log.Warn().
			Int("received", received).
			Int("total", total).
			Msg("Result set incomplete, discarding load")
		return fmt.Errorf("%w: received %d of %d records", ErrIncompleteSet, received, total)
	}
	return nil
}

// worker processes page indexes from the queue
func (bf *BatchFetcher[T]) worker(ctx context.Context, pageQueue <-chan int, results chan<- pageResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for index := range pageQueue {
		select {
		case <-ctx.Done():
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		req := PageRequest{Limit: bf.config.PageSize, Offset: index * bf.config.PageSize}
		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		records, err := bf.fetcher.FetchPage(pageCtx, req)
		cancel()

		if err != nil {
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("offset", req.Offset).
				Msg("Page fetch failed")
			results <- pageResult[T]{index: index, err: &FetchError{Request: req, Err: err}}
			return
		}

		results <- pageResult[T]{index: index, records: records}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}
