// Package testutil provides testing utilities for lazy list loading.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/Sternrassler/lazy-list-loader/internal/server"
	"github.com/Sternrassler/lazy-list-loader/pkg/records"
)

// MockResponse defines a canned response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockRecordService is a record service backed by in-memory stores, with
// failure injection and request tracking.
type MockRecordService struct {
	server   *httptest.Server
	backend  http.Handler
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	failures []MockResponse

	// Tracking
	RequestCount int
	Queries      []string
}

// NewMockRecordService starts a mock service with the given number of seeded
// contacts and accounts.
func NewMockRecordService(contacts, accounts int) *MockRecordService {
	srv, err := server.New(
		records.NewStore(records.SeedContacts(contacts)...),
		records.NewStore(records.SeedAccounts(accounts)...),
		server.DefaultConfig(),
	)
	if err != nil {
		panic(err)
	}

	mock := &MockRecordService{
		backend:  srv.Handler(),
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.Queries = append(mock.Queries, r.URL.Path+"?"+r.URL.RawQuery)
		var failure *MockResponse
		if len(mock.failures) > 0 {
			f := mock.failures[0]
			mock.failures = mock.failures[1:]
			failure = &f
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if failure != nil {
			writeMockResponse(w, *failure)
			return
		}
		if exists {
			handler(w, r)
			return
		}
		mock.backend.ServeHTTP(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockRecordService) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRecordService) Close() {
	m.server.Close()
}

// Reset clears tracking and pending failures.
func (m *MockRecordService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Queries = nil
	m.failures = nil
}

// SetHandler overrides the handler for a specific path.
func (m *MockRecordService) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockRecordService) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeMockResponse(w, resp)
	})
}

// FailNext makes the next n requests, on any path, answer with resp.
func (m *MockRecordService) FailNext(n int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		m.failures = append(m.failures, resp)
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockRecordService) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetQueries returns every requested path and query, in order.
func (m *MockRecordService) GetQueries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.Queries...)
}

func writeMockResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewBadRequestResponse creates a 400 Bad Request response.
func NewBadRequestResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       `{"error": "Bad request"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewMalformedResponse creates a 200 OK response with an undecodable body.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `[{"id": `,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
