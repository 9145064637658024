// Package api exposes the simulation engine over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/simulate?<share query>   simulate from a share link
//	POST /api/simulate                 simulate JSON inputs
//	GET  /api/presets
//	GET  /api/presets/{name}
//	POST /api/share                    build a share link
//	POST /api/compare                  run template what-ifs
//	POST /api/solve                    solve for a goal retirement age
//	GET  /metrics                      Prometheus exposition
//
// Errors are returned as {"error": ..., "details": ...}.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rgehrsitz/firecalc/internal/config"
	"go.uber.org/zap"
)

// Server owns the router and the HTTP listener.
type Server struct {
	settings config.Settings
	logger   *zap.Logger
	handler  *Handler
	metrics  *Metrics
	router   chi.Router
}

// NewServer wires handlers, middleware and metrics from settings. A nil
// logger is replaced with a no-op logger.
func NewServer(settings config.Settings, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		settings: settings,
		logger:   logger,
		handler:  NewHandler(settings, logger, version),
	}
	if settings.Metrics.Enabled {
		s.metrics = NewMetrics()
		s.handler.metrics = s.metrics
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) newRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.settings.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	h := s.handler
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/simulate", h.SimulateQuery)
		r.Post("/simulate", h.Simulate)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Get("/{name}", h.GetPreset)
		})

		r.Post("/share", h.Share)
		r.Post("/compare", h.Compare)
		r.Post("/solve", h.Solve)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, s.settings.Metrics.Path, s.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.settings.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.settings.Server.ReadTimeout,
		WriteTimeout: s.settings.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
