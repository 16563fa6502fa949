// Package studiotest runs an in-process stand-in for the Studio API so
// packages can exercise real HTTP round trips in tests.
package studiotest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const tokenHeader = "x-jwt-token"

// Request is one call the server received.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Token    string
	Body     []byte
}

// Target renders the request as "METHOD /path?query".
func (r Request) Target() string {
	if r.RawQuery == "" {
		return r.Method + " " + r.Path
	}
	return r.Method + " " + r.Path + "?" + r.RawQuery
}

// Server is a chi-routed fake. Unrouted paths answer 404.
type Server struct {
	*httptest.Server

	router chi.Router

	mu       sync.Mutex
	requests []Request
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{router: chi.NewRouter()}
	s.router.Use(s.record)
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)
	return s
}

// Handle routes method+pattern to h. Patterns use chi syntax.
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.router.Method(method, pattern, h)
}

// Reply routes method+pattern to a fixed JSON response.
func (s *Server) Reply(method, pattern string, status int, body any) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns a copy of everything received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Targets returns Request.Target for every received request.
func (s *Server) Targets() []string {
	reqs := s.Requests()
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Target())
	}
	return out
}

// Bodies returns the decoded JSON bodies received on path, in order.
func (s *Server) Bodies(t testing.TB, path string) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, r := range s.Requests() {
		if r.Path != path || len(r.Body) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(r.Body, &m); err != nil {
			t.Fatalf("decode body for %s: %v", path, err)
		}
		out = append(out, m)
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Token:    r.Header.Get(tokenHeader),
			Body:     body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
