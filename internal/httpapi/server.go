// Package httpapi serves the import service over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orceu/orceu-api-saas/internal/config"
	"github.com/orceu/orceu-api-saas/internal/importer"
	"github.com/orceu/orceu-api-saas/internal/logging"
	"github.com/orceu/orceu-api-saas/internal/metrics"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and headers.
const multipartOverhead = 1 << 20

// Options configures the HTTP layer.
type Options struct {
	MaxFileSize    int64
	RequestTimeout time.Duration
	// MetricsPath serves Prometheus metrics when set.
	MetricsPath string
}

// Server routes HTTP requests to the import service.
type Server struct {
	svc     *importer.Service
	metrics *metrics.Metrics
	opts    Options
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. m may be nil to disable the metrics route.
func NewServer(svc *importer.Service, m *metrics.Metrics, opts Options) *Server {
	s := &Server{
		svc:     svc,
		metrics: m,
		opts:    opts,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(accessLog)
	s.router.Use(middleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.opts.RequestTimeout))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.opts.MetricsPath != "" {
		s.router.Method(http.MethodGet, s.opts.MetricsPath, s.metrics.Handler())
	}

	s.router.Route("/v1/imports", func(r chi.Router) {
		r.Post("/estimate_analytics", s.handleAnalytics)
		r.Post("/estimate_markdown", s.handleMarkdown)
		r.Get("/estimate_markdown/{importID}", s.handleMarkdownDownload)
		r.Get("/{importID}", s.handleGetImport)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start(cfg config.ServerConfig) error {
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logging.FromContext(context.Background()).WithFields(logrus.Fields{
		"addr": cfg.Addr(),
	}).Info("http server listening")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight uploads.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.svc.WaitForUploads(ctx)
}
