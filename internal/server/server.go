package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/codearcheology/archeo/pkg/config"
	"github.com/codearcheology/archeo/pkg/observability"
	"github.com/codearcheology/archeo/pkg/pipeline"
)

const serverIdleTimeout = 120 * time.Second

// meterName is the scope name for the server's instruments.
const meterName = "archeo"

// Server is the HTTP analysis service.
type Server struct {
	cfg         config.ServerConfig
	log         *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.REDMetrics
	promHandler http.Handler
	store       *JobStore
	runner      *pipeline.Pipeline
}

// New creates a Server. The upload and results directories are created if
// missing. Request metrics are backed by the /metrics scrape registry, not
// by providers.Meter, so that recorded instruments actually appear in the
// scrape output.
func New(cfg config.ServerConfig, providers observability.Providers) (*Server, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.ResultsDir} {
		err := os.MkdirAll(dir, dirPerm)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	promHandler, promProvider, err := observability.NewPrometheus()
	if err != nil {
		return nil, fmt.Errorf("create metrics endpoint: %w", err)
	}

	metrics, err := observability.NewREDMetrics(promProvider.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	return &Server{
		cfg:         cfg,
		log:         providers.Logger,
		tracer:      providers.Tracer,
		metrics:     metrics,
		promHandler: promHandler,
		store:       NewJobStore(),
		runner:      pipeline.New(providers.Logger),
	}, nil
}

// Handler returns the full route tree wrapped in tracing middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/job/{id}", s.handleJob)
	mux.HandleFunc("GET /api/result/{id}", s.handleResult)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler())
	mux.Handle("GET /metrics", s.promHandler)

	return observability.HTTPMiddleware(s.tracer, s.log, mux)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully within
// the configured grace window.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.log.Info("server started", "addr", httpServer.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	grace := time.Duration(s.cfg.ShutdownGraceSec) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	s.log.Info("server stopped")

	return nil
}
