// Package providertest fakes provider APIs for adapter tests.
package providertest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/resilience"
)

// Route is a canned response.
type Route struct {
	Status int
	Body   string
}

// Recorded is a request the fake received.
type Recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

// Server is an httptest server answering from a route table. Unknown routes
// answer 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string][]Route
	requests []Recorded
}

// NewServer starts a fake closed on test cleanup.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{routes: make(map[string][]Route)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func key(method, path string) string { return method + " " + path }

// Handle sets the response for method and path, replacing earlier ones.
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[key(method, path)] = []Route{{Status: status, Body: body}}
}

// Sequence queues responses served in order; the last one repeats.
func (s *Server) Sequence(method, path string, routes ...Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[key(method, path)] = routes
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	k := key(r.Method, r.URL.Path)
	queue := s.routes[k]
	var route Route
	found := len(queue) > 0
	if found {
		route = queue[0]
		if len(queue) > 1 {
			s.routes[k] = queue[1:]
		}
	}
	s.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.Status)
	_, _ = io.WriteString(w, route.Body)
}

// Requests returns every recorded request for method and path.
func (s *Server) Requests(method, path string) []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Recorded
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Hits counts requests for method and path.
func (s *Server) Hits(method, path string) int {
	return len(s.Requests(method, path))
}

// Deps is the credential store and executor an adapter needs in tests.
type Deps struct {
	Store    *credentials.Store
	Executor *resilience.Executor
	Logger   *slog.Logger
}

// NewDeps returns single-attempt dependencies with a quiet logger.
func NewDeps(t *testing.T) Deps {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Deps{
		Store: credentials.NewStore(logger),
		Executor: resilience.NewExecutor(http.DefaultClient, resilience.Policy{
			Attempts:          1,
			BaseDelay:         time.Millisecond,
			PerAttemptTimeout: 2 * time.Second,
		}, logger),
		Logger: logger,
	}
}
