// Package api serves the digibouquet HTTP API.
//
// Routes:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/flowers
//	POST /api/v1/layouts
//	POST /api/v1/render
//	POST /api/v1/bouquets
//	GET  /api/v1/bouquets/{id}
//	GET  /api/v1/bouquets/{id}/image.{format}
//	POST /api/v1/links
//	GET  /api/v1/links/{token}
//	GET  /api/v1/links/{token}/image.{format}
//
// Errors are JSON objects of the form {"error": {"code": ..., "message": ...}}.
// Messages are safe to show an end user; decoder and storage details only
// reach the server log.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/digibouquet/pkg/share"
)

// Config configures a Server.
type Config struct {
	Addr            string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// DefaultStyle is used when a request names no style.
	DefaultStyle string
	// Width and Height set the frame of layouts computed by the API.
	Width, Height float64
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	svc     *share.Service
	logger  *log.Logger
	metrics *Metrics
	started time.Time
}

// New creates a Server. metrics may be nil to disable /metrics.
func New(cfg Config, svc *share.Service, logger *log.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return &Server{cfg: cfg, svc: svc, logger: logger, metrics: metrics, started: time.Now()}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody(s.cfg.MaxBodyBytes))

		r.Get("/flowers", s.handleFlowers)
		r.Post("/layouts", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/bouquets", func(r chi.Router) {
			r.Post("/", s.handleCreateBouquet)
			r.Get("/{id}", s.handleGetBouquet)
			r.Get("/{id}/image.{format}", s.handleBouquetImage)
		})

		r.Route("/links", func(r chi.Router) {
			r.Post("/", s.handleCreateLink)
			r.Get("/{token}", s.handleGetLink)
			r.Get("/{token}/image.{format}", s.handleLinkImage)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed.")
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
