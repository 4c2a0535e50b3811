// Package server exposes record stores as an offset/limit HTTP service.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/metrics"
	"github.com/Sternrassler/lazy-list-loader/pkg/records"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lazylist_http_requests_total",
		Help: "Total record service HTTP requests by route and status",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lazylist_http_request_duration_seconds",
		Help:    "Record service HTTP request duration in seconds by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Config holds server configuration.
type Config struct {
	// DefaultLimit applies when a request has no limit parameter.
	DefaultLimit int `validate:"min=1,ltefield=MaxLimit"`

	// MaxLimit is the largest accepted limit parameter; larger limits get a 400.
	MaxLimit int `validate:"min=1"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 5,
		MaxLimit:     200,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("server config validation error: %w", err)
	}
	return nil
}

// collection is a store viewed without its record type.
type collection interface {
	page(limit, offset int) (any, error)
	count() int
}

type storeCollection[T records.Record] struct {
	store *records.Store[T]
}

func (s storeCollection[T]) page(limit, offset int) (any, error) {
	return s.store.Page(limit, offset)
}

func (s storeCollection[T]) count() int {
	return s.store.Len()
}

// Server serves record collections over HTTP.
type Server struct {
	router      chi.Router
	collections map[string]collection
	config      Config
	logger      zerolog.Logger
}

// New creates a server for the contact and account stores.
func New(contacts *records.Store[records.Contact], accounts *records.Store[records.Account], cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		collections: map[string]collection{},
		config:      cfg,
		logger:      logging.NewLogger(logging.ComponentServer),
	}
	if contacts != nil {
		s.collections[records.ObjectContacts] = storeCollection[records.Contact]{store: contacts}
	}
	if accounts != nil {
		s.collections[records.ObjectAccounts] = storeCollection[records.Account]{store: accounts}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/records/{object}", s.handlePage)
	r.Get("/records/{object}/count", s.handleCount)
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	col, ok := s.lookup(w, r)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit", s.config.DefaultLimit)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > s.config.MaxLimit {
		// A capped page would read as a short page, i.e. a false end of data
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must not exceed %d", s.config.MaxLimit))
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	page, err := col.page(limit, offset)
	if err != nil {
		if errors.Is(err, records.ErrInvalidWindow) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Page query failed")
		writeError(w, http.StatusInternalServerError, "page query failed")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	col, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total": col.count()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (collection, bool) {
	object := chi.URLParam(r, "object")
	col, ok := s.collections[object]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown object %q", object))
		return nil, false
	}
	return col, true
}

// logRequests logs and measures every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
