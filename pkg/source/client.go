// Package source provides the HTTP client for the record service, the
// paged-fetch backend of lazy lists.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for record service requests.
var (
	sourceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazylist_source_requests_total",
		Help: "Total record service requests by object and status",
	}, []string{"object", "status"})

	sourceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lazylist_source_request_duration_seconds",
		Help:    "Record service request duration in seconds by object",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"object"})

	sourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazylist_source_errors_total",
		Help: "Total record service errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the record service, e.g. "http://localhost:8080"
	BaseURL string

	// Object is the record collection, e.g. "contacts"
	Object string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// Retry policy for server and network errors
	Retry RetryConfig
}

// DefaultConfig returns a default configuration for object at baseURL.
func DefaultConfig(baseURL, object string) Config {
	return Config{
		BaseURL:   baseURL,
		Object:    object,
		UserAgent: "lazy-list-loader/0.1.0",
		Timeout:   10 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// Client fetches pages of T from the record service.
type Client[T any] struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new record service client.
func New[T any](cfg Config) (*Client[T], error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Object == "" {
		return nil, fmt.Errorf("object is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client[T]{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		config:     cfg,
		logger:     logging.ForSource(logging.ComponentSource, cfg.Object),
	}, nil
}

// FetchPage implements pagination.PageFetcher.
func (c *Client[T]) FetchPage(ctx context.Context, req pagination.PageRequest) ([]T, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(req.Limit))
	query.Set("offset", strconv.Itoa(req.Offset))

	var page []T
	if err := c.getJSON(ctx, "/records/"+c.config.Object, query, &page); err != nil {
		return nil, err
	}
	if page == nil {
		page = []T{}
	}
	return page, nil
}

// countResponse is the body of the count endpoint.
type countResponse struct {
	Total int `json:"total"`
}

// Count implements pagination.Counter.
func (c *Client[T]) Count(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.getJSON(ctx, "/records/"+c.config.Object+"/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Total, nil
}

// getJSON performs a GET with retry and decodes the JSON body into out.
func (c *Client[T]) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := *c.baseURL
	endpoint.Path += path
	endpoint.RawQuery = query.Encode()

	startTime := time.Now()
	defer func() {
		sourceRequestDuration.WithLabelValues(c.config.Object).Observe(time.Since(startTime).Seconds())
	}()

	return retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.config.UserAgent != "" {
			req.Header.Set("User-Agent", c.config.UserAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			sourceErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			sourceRequestsTotal.WithLabelValues(c.config.Object, "network_error").Inc()
			c.logger.Warn().Err(err).Str("path", path).Msg("Record service request failed")
			return &Error{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: err}
		}
		defer resp.Body.Close()

		sourceRequestsTotal.WithLabelValues(c.config.Object, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			sourceErrorsTotal.WithLabelValues(string(class)).Inc()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			c.logger.Warn().
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Record service error")
			return &Error{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    strings.TrimSpace(string(body)),
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			sourceErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
			return &Error{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassDecode,
				Message:    "decode response",
				Err:        err,
			}
		}

		c.logger.Debug().
			Str("path", path).
			Str("query", endpoint.RawQuery).
			Msg("Record service request complete")
		return nil
	})
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client[T]) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Object returns the record collection this client reads.
func (c *Client[T]) Object() string {
	return c.config.Object
}
