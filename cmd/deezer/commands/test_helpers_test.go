package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const notFoundBody = `{"error": {"type": "DataException", "message": "no data", "code": 800}}`

// cliServer serves canned Deezer responses and records every request.
type cliServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int
	queries  map[string][]url.Values
}

func newCLIServer(t *testing.T) *cliServer {
	t.Helper()

	server := &cliServer{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
		queries:  make(map[string][]url.Values),
	}

	server.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.mu.Lock()
		server.hits[r.URL.Path]++
		server.queries[r.URL.Path] = append(server.queries[r.URL.Path], r.URL.Query())
		handler, ok := server.handlers[r.URL.Path]
		server.mu.Unlock()

		if !ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(notFoundBody))

			return
		}

		handler(w, r)
	}))

	t.Cleanup(server.Close)

	return server
}

func (s *cliServer) Handle(path string, handler http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[path] = handler
}

func (s *cliServer) JSON(path, body string) {
	s.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

// Paged serves total generated tracks, honouring index and limit.
func (s *cliServer) Paged(path string, total int) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		index, _ := strconv.Atoi(r.URL.Query().Get("index"))

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 25
		}

		items := make([]string, 0, limit)
		for id := index + 1; id <= min(index+limit, total); id++ {
			items = append(items, fmt.Sprintf(`{"id": %d, "title": "Track %d", "duration": 180}`, id, id))
		}

		next := ""
		if index+limit < total {
			next = fmt.Sprintf(`, "next": "%s%s?index=%d&limit=%d"`, s.URL, path, index+limit, limit)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"data": [%s], "total": %d%s}`, strings.Join(items, ","), total, next)
	})
}

func (s *cliServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[path]
}

func (s *cliServer) Queries(path string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]url.Values(nil), s.queries[path]...)
}

// setupCLI points the CLI at apiURL with JSON output and a temporary config
// file. viper is global, so tests using it do not run in parallel.
func setupCLI(t *testing.T, apiURL string) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)
	viper.Set("api", apiURL)
	viper.Set("output", "json")

	return configFile
}

// executeCommand runs cmd with args and returns what it printed.
func executeCommand(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
