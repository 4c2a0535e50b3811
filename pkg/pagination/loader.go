package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/rs/zerolog"
)

// Config holds loader configuration.
type Config struct {
	// PageSize is the limit sent with every page request.
	PageSize int

	// Source labels logs and metrics (e.g. "contacts").
	Source string
}

// DefaultConfig returns the default loader configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Source:   "records",
	}
}

// Row is an accumulated record stamped with its serial number.
type Row[T any] struct {
	// SerialNumber is the 1-based position of the record at merge time.
	SerialNumber int `json:"serialNumber"`

	Record T `json:"record"`
}

// Loader accumulates pages of T from a PageFetcher, one fetch at a time.
type Loader[T any] struct {
	fetcher PageFetcher[T]
	config  Config
	logger  zerolog.Logger

	mu       sync.Mutex
	state    State
	rows     []Row[T]
	disposed bool
}

// NewLoader creates a loader in its mounted state: nothing loaded, offset 0, more pages expected.
func NewLoader[T any](fetcher PageFetcher[T], cfg Config) (*Loader[T], error) {
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("page_size must be positive (got %d)", cfg.PageSize)
	}
	if cfg.Source == "" {
		cfg.Source = "records"
	}

	return &Loader[T]{
		fetcher: fetcher,
		config:  cfg,
		logger:  logging.ForSource(logging.ComponentLoader, cfg.Source),
		state:   NewState(cfg.PageSize),
	}, nil
}

// RequestNextPage fetches and merges the next page and returns the rows it added.
//
// It returns ErrFetchInFlight, ErrNoMorePages or ErrDisposed without calling the
// fetcher when the loader cannot accept a request, and a *FetchError when the
// fetch fails. A failed fetch leaves offset, rows and hasMore unchanged.
func (l *Loader[T]) RequestNextPage(ctx context.Context) ([]Row[T], error) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return nil, l.reject(ErrDisposed)
	}
	next, effect := Transition(l.state, Request())
	if effect.Kind != EffectFetch {
		err := l.state.rejection()
		l.mu.Unlock()
		return nil, l.reject(err)
	}
	l.state = next
	l.mu.Unlock()

	req := effect.Request
	l.logger.Debug().
		Int("limit", req.Limit).
		Int("offset", req.Offset).
		Msg("Requesting page")

	start := time.Now()
	settled := false
	defer func() {
		// Reached without settling only when the fetcher panics.
		if !settled {
			l.settle(FetchFailed())
		}
	}()

	records, err := l.fetcher.FetchPage(ctx, req)
	PageFetchDuration.WithLabelValues(l.config.Source).Observe(time.Since(start).Seconds())
	if err != nil {
		settled = true
		l.settle(FetchFailed())
		PageFetches.WithLabelValues(l.config.Source, "error").Inc()
		fetchErr := &FetchError{Request: req, Err: err}
		l.logger.Error().
			Err(err).
			Int("limit", req.Limit).
			Int("offset", req.Offset).
			Dur("duration", time.Since(start)).
			Msg("Page fetch failed")
		return nil, fetchErr
	}

	settled = true
	return l.merge(req, records, time.Since(start))
}

// RequestMore requests the next page and discards the returned rows.
func (l *Loader[T]) RequestMore(ctx context.Context) error {
	_, err := l.RequestNextPage(ctx)
	return err
}

// merge applies a successful fetch. It is a no-op on a disposed loader.
func (l *Loader[T]) merge(req PageRequest, records []T, took time.Duration) ([]Row[T], error) {
	if len(records) > req.Limit {
		l.logger.Warn().
			Int("limit", req.Limit).
			Int("received", len(records)).
			Msg("Page larger than requested limit, truncating")
		records = records[:req.Limit]
	}

	total, known := -1, false
	if t, ok := l.fetcher.(Totaler); ok {
		total, known = t.Total()
		if !known {
			total = -1
		}
	}

	l.mu.Lock()
	if l.disposed {
		// Nothing is merged, but the fetch has settled
		l.state, _ = Transition(l.state, FetchFailed())
		l.mu.Unlock()
		l.logger.Debug().
			Int("offset", req.Offset).
			Int("received", len(records)).
			Msg("Discarding page for disposed loader")
		return nil, ErrDisposed
	}

	base := len(l.rows)
	added := make([]Row[T], len(records))
	for i, rec := range records {
		added[i] = Row[T]{SerialNumber: base + i + 1, Record: rec}
	}
	l.rows = append(l.rows, added...)
	l.state, _ = Transition(l.state, PageLoadedOf(len(records), total))
	state := l.state
	l.mu.Unlock()

	result := "ok"
	if len(records) == 0 {
		result = "empty"
	}
	PageFetches.WithLabelValues(l.config.Source, result).Inc()
	RecordsLoaded.WithLabelValues(l.config.Source).Add(float64(len(records)))

	l.logger.Info().
		Int("offset", req.Offset).
		Int("received", len(records)).
		Int("loaded", state.Loaded).
		Bool("has_more", state.HasMore).
		Bool("total_known", known).
		Dur("duration", took).
		Msg("Page merged")

	return added, nil
}

// settle feeds a terminal fetch event into the state machine.
func (l *Loader[T]) settle(ev Event) {
	l.mu.Lock()
	l.state, _ = Transition(l.state, ev)
	l.mu.Unlock()
}

func (l *Loader[T]) reject(err error) error {
	RejectedRequests.WithLabelValues(l.config.Source, rejectionReason(err)).Inc()
	l.logger.Debug().Err(err).Msg("Page request ignored")
	return err
}

// CanRequest reports whether RequestNextPage would issue a fetch right now.
func (l *Loader[T]) CanRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.disposed && l.state.CanRequest()
}

// State returns a snapshot of the pagination state.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Rows returns a copy of every accumulated row in fetch order.
func (l *Loader[T]) Rows() []Row[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Row[T], len(l.rows))
	copy(out, l.rows)
	return out
}

// Len returns the number of accumulated rows.
func (l *Loader[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// PageSize returns the configured page size.
func (l *Loader[T]) PageSize() int {
	return l.config.PageSize
}

// Dispose detaches the loader from its owner. Fetches still in flight run to
// completion but their results are dropped.
func (l *Loader[T]) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return
	}
	l.disposed = true
	l.logger.Debug().Int("loaded", len(l.rows)).Msg("Loader disposed")
}

// Disposed reports whether Dispose has been called.
func (l *Loader[T]) Disposed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}
