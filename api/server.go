// Package api exposes the processed dataset and its derived tables as JSON
// for an external presentation layer.
package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cyclelens/app"
	"cyclelens/domain/cycle"
	"cyclelens/internal"
)

// Server serves the core's tables over HTTP. It holds at most one dataset
// for the session; every request recomputes its answer from that dataset.
type Server struct {
	router   *chi.Mux
	pipeline *app.Pipeline
	logger   *internal.Logger

	mu      sync.RWMutex
	dataset *cycle.Dataset
}

// NewServer creates a server around a pipeline.
func NewServer(pipeline *app.Pipeline) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		logger:   internal.DefaultLogger,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/records", s.handleRecords)
	s.router.Get("/api/overview", s.handleOverview)
	s.router.Get("/api/report", s.handleReport)
	s.router.Get("/api/overlay", s.handleOverlay)

	return s
}

// SetDataset installs the dataset served by subsequent requests.
func (s *Server) SetDataset(ds *cycle.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
}

func (s *Server) currentDataset() *cycle.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port.
func (s *Server) ListenAndServe(port string) error {
	s.logger.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
