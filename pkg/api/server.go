// Package api serves conversions over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/conversions                          multipart: image, constraints, option fields
//	GET    /v1/conversions                          newest records first (?limit=N)
//	GET    /v1/conversions/{id}                     record JSON
//	DELETE /v1/conversions/{id}
//	GET    /v1/conversions/{id}/artifacts/{format}  gds, lef, json or png bytes
//
// Failures are answered with a JSON body {"code": ..., "message": ...}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/siliconmark/logocell/pkg/observability"
	"github.com/siliconmark/logocell/pkg/pipeline"
	"github.com/siliconmark/logocell/pkg/store"
)

// DefaultMaxUpload bounds the multipart request body.
const DefaultMaxUpload = 32 << 20

// Server routes API requests to a pipeline runner and a record store.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	logger    *log.Logger
	maxUpload int64
	router    chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithMaxUpload sets the request body limit in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a server. A nil store keeps records in memory.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	s := &Server{
		runner:    runner,
		store:     st,
		logger:    log.Default(),
		maxUpload: DefaultMaxUpload,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.health)
	r.Route("/v1/conversions", func(r chi.Router) {
		r.Post("/", s.createConversion)
		r.Get("/", s.listConversions)
		r.Get("/{id}", s.getConversion)
		r.Delete("/{id}", s.deleteConversion)
		r.Get("/{id}/artifacts/{format}", s.getArtifact)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// observe reports every request to the HTTP hooks under its route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
