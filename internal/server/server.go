package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/LicenseChain/Status/internal/healthcheck"
	"github.com/LicenseChain/Status/internal/metrics"
	"github.com/LicenseChain/Status/internal/monitor"
	"github.com/LicenseChain/Status/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second

	// cronRateInterval bounds how often the trigger endpoint may start a
	// cycle; the external cadence is several times a day, so anything
	// faster than this is either a retry storm or abuse.
	cronRateInterval = 10 * time.Second
)

// Config carries the server's runtime settings.
type Config struct {
	Port         int
	CronSecret   string
	PollInterval time.Duration
}

// CycleRunner triggers one check cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (monitor.CycleReport, error)
}

// Server exposes the status API plus operational endpoints.
type Server struct {
	logger  zerolog.Logger
	gateway store.Gateway
	cycles  CycleRunner
	tracker *healthcheck.Tracker
	metrics *metrics.Metrics
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

// Option customizes server behavior.
type Option func(*Server)

// WithCronLimiter overrides the trigger-endpoint rate limiter.
func WithCronLimiter(limiter *rate.Limiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New constructs a Server.
func New(logger zerolog.Logger, gateway store.Gateway, cycles CycleRunner, tracker *healthcheck.Tracker, metricsCollector *metrics.Metrics, cfg Config, opts ...Option) *Server {
	s := &Server{
		logger:  logger,
		gateway: gateway,
		cycles:  cycles,
		tracker: tracker,
		metrics: metricsCollector,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cronRateInterval), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/incidents", s.handleIncidents)
	mux.HandleFunc("GET /api/cron/check-status", s.handleCron)
	mux.HandleFunc("/healthz", healthcheck.HealthHandler(s.tracker, s.cfg.PollInterval))
	mux.HandleFunc("/readyz", healthcheck.ReadyHandler(s.tracker))
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Start launches the HTTP server and shuts it down when ctx is canceled.
func (s *Server) Start(ctx context.Context) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info().Int("port", s.cfg.Port).Msg("http server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Int("port", s.cfg.Port).Msg("http server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Int("port", s.cfg.Port).Msg("http server shutdown failed")
		}
	}()
}
