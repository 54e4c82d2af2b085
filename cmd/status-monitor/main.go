package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LicenseChain/Status/internal/config"
	"github.com/LicenseChain/Status/internal/healthcheck"
	"github.com/LicenseChain/Status/internal/logging"
	"github.com/LicenseChain/Status/internal/metrics"
	"github.com/LicenseChain/Status/internal/monitor"
	"github.com/LicenseChain/Status/internal/probe"
	"github.com/LicenseChain/Status/internal/runner"
	"github.com/LicenseChain/Status/internal/server"
	"github.com/LicenseChain/Status/internal/store"
	"github.com/LicenseChain/Status/internal/uptime"
)

const defaultSeedUptime = 99.0

func main() {
	cfg, err := config.Load()
	logger := logging.New(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, err := store.Open(cfg.DBPath, logger.With().Str("component", "store").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}

	if cfg.CatalogFile != "" {
		catalog, err := config.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("load catalog")
		}
		services, incidents := seedRecords(catalog)
		if err := gateway.Seed(ctx, services, incidents); err != nil {
			logger.Fatal().Err(err).Msg("seed catalog")
		}
	}

	prober := probe.New(
		logger.With().Str("component", "probe").Logger(),
		probe.WithSlowThreshold(cfg.SlowThreshold),
	)
	estimator := uptime.NewEstimator(gateway)
	metricsCollector := metrics.New()
	tracker := healthcheck.NewTracker()

	mon := monitor.New(
		logger.With().Str("component", "monitor").Logger(),
		gateway,
		prober,
		estimator,
		monitor.WithMetrics(metricsCollector),
		monitor.WithTracker(tracker),
		monitor.WithDefaultTimeout(cfg.DefaultTimeout),
	)

	srv := server.New(
		logger.With().Str("component", "server").Logger(),
		gateway,
		mon,
		tracker,
		metricsCollector,
		server.Config{
			Port:         cfg.HTTPPort,
			CronSecret:   cfg.CronSecret,
			PollInterval: cfg.PollInterval,
		},
	)
	srv.Start(ctx)

	logger.Info().
		Int("port", cfg.HTTPPort).
		Dur("poll_interval", cfg.PollInterval).
		Msg("status-monitor starting")

	if cfg.PollInterval > 0 {
		loop := runner.New(
			logger.With().Str("component", "runner").Logger(),
			cfg.PollInterval,
			func(ctx context.Context) error {
				_, err := mon.RunCycle(ctx)
				return err
			},
		)
		if err := loop.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("runner failed")
		}
	} else {
		<-ctx.Done()
	}

	logger.Info().Msg("status-monitor stopped")
}

// seedRecords converts catalog entries into store records. URL-less
// services keep their declared static status; probed services start
// operational until the first cycle overwrites them.
func seedRecords(catalog config.Catalog) ([]store.ServiceState, []store.Incident) {
	now := time.Now().UTC()

	services := make([]store.ServiceState, 0, len(catalog.Services))
	for _, entry := range catalog.Services {
		state := store.ServiceState{
			ServiceName:    entry.Name,
			URL:            entry.URL,
			Status:         entry.Status,
			UptimePercent:  entry.Uptime,
			LastCheckedAt:  now,
			Category:       entry.Category,
			Description:    entry.Description,
			TimeoutMS:      entry.TimeoutMS,
			ExpectedStatus: entry.ExpectedStatus,
			FallbackURL:    entry.FallbackHealthURL,
		}
		if state.Status == "" {
			state.Status = "operational"
		}
		if state.Category == "" {
			state.Category = "core"
		}
		if state.UptimePercent == 0 {
			state.UptimePercent = defaultSeedUptime
		}
		if entry.ResponseTimeMS > 0 {
			ms := entry.ResponseTimeMS
			state.ResponseTimeMS = &ms
		}
		services = append(services, state)
	}

	incidents := make([]store.Incident, 0, len(catalog.Incidents))
	for _, entry := range catalog.Incidents {
		incident := store.Incident{
			ID:               entry.ID,
			Title:            entry.Title,
			Description:      entry.Description,
			Status:           entry.Status,
			AffectedServices: store.EncodeAffectedServices(entry.AffectedServices),
			CreatedAt:        entry.CreatedAt,
			UpdatedAt:        entry.UpdatedAt,
			ResolvedAt:       entry.ResolvedAt,
		}
		if incident.CreatedAt.IsZero() {
			incident.CreatedAt = now
		}
		if incident.UpdatedAt.IsZero() {
			incident.UpdatedAt = incident.CreatedAt
		}
		incidents = append(incidents, incident)
	}

	return services, incidents
}
