package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

// NotFoundBody is the envelope Deezer answers unknown ids with, under HTTP 200.
const NotFoundBody = `{"error":{"type":"DataException","message":"no data","code":800}}`

// FixtureServer serves canned bodies per path and counts hits per path.
// Unregistered paths get the not-found envelope.
type FixtureServer struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	handlers map[string]http.HandlerFunc
}

// NewFixtureServer starts a fixture server closed at the end of the test.
func NewFixtureServer(t *testing.T) *FixtureServer {
	t.Helper()

	server := &FixtureServer{
		hits:     make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
	}

	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)

	return server
}

// Handle registers a handler for path.
func (s *FixtureServer) Handle(path string, handler http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[path] = handler
}

// JSON registers a fixed JSON body for path.
func (s *FixtureServer) JSON(path string, status int, body string) {
	s.Handle(path, func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	})
}

// Hits returns how many requests reached path.
func (s *FixtureServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[path]
}

// TotalHits returns how many requests reached the server.
func (s *FixtureServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, hits := range s.hits {
		total += hits
	}

	return total
}

func (s *FixtureServer) serve(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	s.hits[request.URL.Path]++
	handler, ok := s.handlers[request.URL.Path]
	s.mu.Unlock()

	if !ok {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(NotFoundBody))

		return
	}

	handler(writer, request)
}

// NewTestClient creates a client against baseURL with retries and caching
// disabled. Mutators adjust the configuration before the client is built.
func NewTestClient(t *testing.T, baseURL string, mutators ...func(*deezer.Config)) *Client {
	t.Helper()

	config := &deezer.Config{
		BaseURL:      baseURL,
		RetryMax:     -1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
		HTTPTimeout:  2 * time.Second,
		Cache:        &deezer.CacheConfig{Type: deezer.CacheTypeNone},
	}

	for _, mutate := range mutators {
		mutate(config)
	}

	client, err := New(context.Background(), config)
	require.NoError(t, err)

	return client
}

// WithMemoryCache enables the default in-memory response cache.
func WithMemoryCache(config *deezer.Config) {
	config.Cache = deezer.DefaultCacheConfig()
}

// WithAccessToken sets a static access token.
func WithAccessToken(token string) func(*deezer.Config) {
	return func(config *deezer.Config) {
		config.AccessToken = token
	}
}
