// Package server exposes the planning pipeline over HTTP.
//
// It serves the plan API under /api/v1, Kubernetes-style health probes
// (liveness, readiness, startup), and Prometheus metrics, with graceful
// shutdown and connection draining.
package server

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felixgeelhaar/taskplan/internal/decompose"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/log"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/store"
)

// Server hosts the plan API with health endpoints.
type Server struct {
	httpServer      *http.Server
	probeManager    *health.ProbeManager
	decomposer      *decompose.Decomposer
	store           store.Store
	logger          *log.Logger
	metrics         *metrics.Metrics
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g., ":8080", "0.0.0.0:8080")
	Address string

	// ShutdownTimeout is the maximum time to wait for connections to drain
	// during shutdown. Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	// Defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes. Decomposition calls an LLM, so
	// the default is 120 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum time to wait for the next request.
	// Defaults to 60 seconds.
	IdleTimeout time.Duration
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	ProbeManager *health.ProbeManager
	Decomposer   *decompose.Decomposer
	Store        store.Store
	Logger       *log.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
}

// NewServer creates an HTTP server wiring the plan API, probes, and metrics.
func NewServer(deps Deps, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 120 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		probeManager:    deps.ProbeManager,
		decomposer:      deps.Decomposer,
		store:           deps.Store,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.logger == nil {
		s.logger = log.DefaultLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.GetDefault()
	}

	mux := http.NewServeMux()

	// Plan API
	mux.HandleFunc("POST /api/v1/plans", s.instrument("/api/v1/plans", s.handleCreatePlan))
	mux.HandleFunc("GET /api/v1/plans", s.instrument("/api/v1/plans", s.handleListPlans))
	mux.HandleFunc("GET /api/v1/plans/{id}", s.instrument("/api/v1/plans/{id}", s.handleGetPlan))
	mux.HandleFunc("DELETE /api/v1/plans/{id}", s.instrument("/api/v1/plans/{id}", s.handleDeletePlan))

	// Health endpoints
	mux.HandleFunc("GET /health/live", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /health/startup", s.handleStartup)

	// Backward compatibility: /healthz maps to readiness
	mux.HandleFunc("GET /healthz", s.handleReadiness)

	// Prometheus metrics
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server. This blocks until the server stops and
// returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.refreshStoreGauge(context.Background())
	s.probeManager.MarkInitialized()
	s.logger.Info("http server listening", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections and stops the server.
//
// It marks the server as shutting down first so readiness probes fail and
// the pod is removed from service endpoints, then disables keep-alives and
// waits up to ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

// instrument wraps a handler with request counting and latency metrics.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next(sw, r)

		s.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	}
}

// statusWriter captures the response status for instrumentation.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
