// Package server exposes designs over HTTP.
//
// Designs live in a [store.Store]. Every edit loads a design, applies one
// gesture from [design.Document] and stores it again; layout requests run
// the shared [pipeline.Runner] so that the server and the CLI hit the same
// cache entries for the same input.
//
// Routes:
//
//	GET    /healthz
//	GET    /designs
//	POST   /designs
//	GET    /designs/{id}
//	PUT    /designs/{id}
//	DELETE /designs/{id}
//	GET    /designs/{id}/spans
//	POST   /designs/{id}/paint
//	POST   /designs/{id}/erase
//	POST   /designs/{id}/columns
//	DELETE /designs/{id}/columns/{index}
//	POST   /designs/{id}/rows
//	DELETE /designs/{id}/rows/{index}
//	POST   /designs/{id}/nodes
//	POST   /designs/{id}/edges
//	POST   /designs/{id}/layout
//
// Errors are returned as {"code": ..., "message": ...} with the HTTP status
// of their error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/pipeline"
	"github.com/matzehuels/cellspan/pkg/store"
)

const (
	// maxBodyBytes limits request bodies.
	maxBodyBytes = 10 << 20

	shutdownTimeout = 10 * time.Second
)

// Server holds the router and the backends its handlers use.
type Server struct {
	router  chi.Router
	store   store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	palette []grid.Tag

	// edits serializes read-modify-write cycles on the store.
	edits sync.Mutex
}

// Option configures optional Server behavior.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithPalette sets the palette of designs created through the API.
func WithPalette(p []grid.Tag) Option {
	return func(s *Server) { s.palette = p }
}

// New creates a Server with all routes configured. A nil runner disables
// caching.
func New(st store.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{store: st, runner: runner, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/designs", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)

			r.Get("/spans", s.handleSpans)
			r.Post("/paint", s.handlePaint)
			r.Post("/erase", s.handleErase)

			r.Post("/columns", s.handleInsertTrack(grid.Columns))
			r.Delete("/columns/{index}", s.handleRemoveTrack(grid.Columns))
			r.Post("/rows", s.handleInsertTrack(grid.Rows))
			r.Delete("/rows/{index}", s.handleRemoveTrack(grid.Rows))

			r.Post("/nodes", s.handleAddNode)
			r.Post("/edges", s.handleAddEdge)

			r.Post("/layout", s.handleLayout)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
