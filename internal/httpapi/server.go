// Package httpapi is the stateless HTTP translation layer: it routes the
// REST surface onto the repository, classifier registry, and training
// scheduler, and maps domain error kinds to status codes.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/galahad-project/galahad/internal/classifier"
	"github.com/galahad-project/galahad/internal/repository"
	"github.com/galahad-project/galahad/internal/training"
)

// Server holds the components the HTTP layer dispatches onto. It is stateless
// itself: all mutable state lives in the repository, registry, and scheduler.
type Server struct {
	repo      *repository.Repository
	registry  *classifier.Registry
	scheduler *training.Scheduler
	cors      string
	logger    *slog.Logger
}

// New creates a Server. corsOrigins is either "*" or a comma-separated
// allow-list.
func New(repo *repository.Repository, registry *classifier.Registry, scheduler *training.Scheduler, corsOrigins string, logger *slog.Logger) *Server {
	return &Server{
		repo:      repo,
		registry:  registry,
		scheduler: scheduler,
		cors:      corsOrigins,
		logger:    logger,
	}
}

// route is one dispatchable endpoint: a method, a fixed segment pattern
// (a literal segment or "*" for a captured one), and a handler. Captured
// segments are handed to the handler via pathParams, in pattern order.
type route struct {
	method   string
	segments []string // literal segment, or "*" for a capture
	handler  func(w http.ResponseWriter, r *http.Request, params []string)
}

// routes dispatches directly over path segments, bypassing
// net/http.ServeMux's automatic "."/".." collapsing: a client-supplied ".."
// segment must reach the identifier guard as literal input (422), never be
// silently cleaned into a redirect to a different path.
func (s *Server) routes() []route {
	return []route{
		{"GET", []string{"ping"}, func(w http.ResponseWriter, r *http.Request, _ []string) { s.handlePing(w, r) }},

		{"GET", []string{"dataset"}, func(w http.ResponseWriter, r *http.Request, _ []string) { s.handleListDatasets(w, r) }},
		{"PUT", []string{"dataset", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleCreateDataset(w, r, p[0]) }},
		{"DELETE", []string{"dataset", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleDeleteDataset(w, r, p[0]) }},
		{"GET", []string{"dataset", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleGetDataset(w, r, p[0]) }},
		{"PUT", []string{"dataset", "*", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handlePutDocument(w, r, p[0], p[1]) }},
		{"DELETE", []string{"dataset", "*", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleDeleteDocument(w, r, p[0], p[1]) }},

		{"GET", []string{"classifier"}, func(w http.ResponseWriter, r *http.Request, _ []string) { s.handleListClassifiers(w, r) }},
		{"GET", []string{"classifier", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleGetClassifier(w, r, p[0]) }},

		{"POST", []string{"classifier", "*", "*", "train", "*"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handleTrain(w, r, p[0], p[1], p[2]) }},
		{"POST", []string{"classifier", "*", "*", "predict"}, func(w http.ResponseWriter, r *http.Request, p []string) { s.handlePredict(w, r, p[0], p[1]) }},
	}
}

// Handler returns the process's single http.Handler.
func (s *Server) Handler() http.Handler {
	routes := s.routes()
	return s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path)

		for _, rt := range routes {
			if rt.method != r.Method || len(rt.segments) != len(segments) {
				continue
			}
			params, ok := matchSegments(rt.segments, segments)
			if !ok {
				continue
			}
			rt.handler(w, r, params)
			return
		}

		http.NotFound(w, r)
	}))
}

// splitPath splits a URL path into non-empty segments without collapsing
// "." or ".." — those must reach route handlers as literal, validatable
// input.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func matchSegments(pattern, actual []string) ([]string, bool) {
	var params []string
	for i, seg := range pattern {
		if seg == "*" {
			params = append(params, actual[i])
			continue
		}
		if seg != actual[i] {
			return nil, false
		}
	}
	return params, true
}

// withCORS wraps handler with CORS header handling: "*" means any origin,
// otherwise a comma-separated allow-list is checked against the request's
// Origin header.
func (s *Server) withCORS(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORS(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func (s *Server) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}

	if s.cors == "*" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		for _, allowed := range strings.Split(s.cors, ",") {
			if strings.TrimSpace(allowed) == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
	}

	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}
