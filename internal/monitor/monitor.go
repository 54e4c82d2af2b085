package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LicenseChain/Status/internal/healthcheck"
	"github.com/LicenseChain/Status/internal/metrics"
	"github.com/LicenseChain/Status/internal/probe"
	"github.com/LicenseChain/Status/internal/status"
	"github.com/LicenseChain/Status/internal/store"
	"github.com/LicenseChain/Status/internal/transition"
)

// Prober issues one bounded health check.
type Prober interface {
	Probe(ctx context.Context, target probe.Target) probe.Result
}

// Estimator computes the rolling uptime for a service.
type Estimator interface {
	Estimate(ctx context.Context, serviceName string, current status.Status, previous float64) (float64, error)
}

// Monitor orchestrates check cycles over all probe-eligible services.
type Monitor struct {
	logger         zerolog.Logger
	gateway        store.Gateway
	prober         Prober
	estimator      Estimator
	metrics        *metrics.Metrics
	tracker        *healthcheck.Tracker
	defaultTimeout time.Duration
	now            func() time.Time
	newID          func() string
	cycleMu        sync.Mutex
}

// Option customizes monitor behavior.
type Option func(*Monitor)

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mon *Monitor) {
		mon.metrics = m
	}
}

// WithTracker attaches a cycle tracker for health endpoints.
func WithTracker(t *healthcheck.Tracker) Option {
	return func(mon *Monitor) {
		mon.tracker = t
	}
}

// WithDefaultTimeout sets the probe timeout used when a service does not
// declare its own.
func WithDefaultTimeout(d time.Duration) Option {
	return func(mon *Monitor) {
		mon.defaultTimeout = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(mon *Monitor) {
		mon.now = now
	}
}

// WithIDGenerator overrides history record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(mon *Monitor) {
		mon.newID = newID
	}
}

// New constructs a Monitor over the given gateway, prober and estimator.
func New(logger zerolog.Logger, gateway store.Gateway, prober Prober, estimator Estimator, opts ...Option) *Monitor {
	mon := &Monitor{
		logger:         logger,
		gateway:        gateway,
		prober:         prober,
		estimator:      estimator,
		defaultTimeout: 10 * time.Second,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(mon)
	}
	return mon
}

// RunCycle executes one full check cycle: probe every service that has a
// URL, derive its uptime, persist the new state plus a history record, and
// report the per-service outcomes. Per-service failures are absorbed into
// the report; only a failure to list services aborts the cycle. Overlapping
// invocations are serialized.
func (m *Monitor) RunCycle(ctx context.Context) (CycleReport, error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	start := m.now()

	services, err := m.gateway.ListServices(ctx)
	if err != nil {
		return CycleReport{}, fmt.Errorf("list services: %w", err)
	}

	previous := make(map[string]status.Status)
	var eligible []store.ServiceState
	for _, svc := range services {
		if !svc.Probeable() {
			continue
		}
		previous[svc.ServiceName] = status.Normalize(svc.Status)
		eligible = append(eligible, svc)
	}

	report := CycleReport{
		Timestamp: start.UTC(),
		Results:   make([]CycleResult, len(eligible)),
	}

	var wg sync.WaitGroup
	for i, svc := range eligible {
		wg.Add(1)
		go func(i int, svc store.ServiceState) {
			defer wg.Done()
			report.Results[i] = m.checkService(ctx, svc)
		}(i, svc)
	}
	wg.Wait()

	report.sort()
	report.Checked = len(report.Results)

	m.logTransitions(previous, report)
	m.recordCycle(services, report, m.now().Sub(start))

	return report, nil
}

// checkService runs the probe, fallback chain, uptime estimation and
// persistence for one service. Every error path yields a result entry.
func (m *Monitor) checkService(ctx context.Context, svc store.ServiceState) CycleResult {
	result := CycleResult{ServiceName: svc.ServiceName}

	outcome := m.prober.Probe(ctx, probe.Target{
		Name:           svc.ServiceName,
		URL:            svc.URL,
		Timeout:        m.probeTimeout(svc),
		ExpectedStatus: svc.ExpectedStatus,
	})

	sampled := outcome.TransportErr == nil
	var probeErr error
	if outcome.TransportErr != nil {
		probeErr = outcome.TransportErr
		m.metrics.IncProbeFailures(svc.ServiceName)
		if svc.FallbackURL != "" {
			outcome, sampled = m.fallback(ctx, svc, outcome)
			probeErr = nil
		}
	}

	result.Status = outcome.Status
	if sampled {
		ms := int(outcome.ResponseTime / time.Millisecond)
		result.ResponseTimeMS = &ms
	}
	if probeErr != nil {
		result.Err = probeErr.Error()
	}

	uptime, err := m.estimator.Estimate(ctx, svc.ServiceName, result.Status, svc.UptimePercent)
	if err != nil {
		m.metrics.IncStoreErrors()
		result.Err = fmt.Sprintf("estimate uptime: %v", err)
		result.UptimePercent = svc.UptimePercent
		return result
	}
	result.UptimePercent = uptime

	checkedAt := m.now().UTC()
	state := svc
	state.Status = string(result.Status)
	state.ResponseTimeMS = result.ResponseTimeMS
	state.UptimePercent = uptime
	state.LastCheckedAt = checkedAt

	if err := m.gateway.UpdateServiceState(ctx, state); err != nil {
		m.metrics.IncStoreErrors()
		result.Err = err.Error()
		return result
	}

	record := store.CheckHistoryRecord{
		ID:             m.newID(),
		ServiceName:    svc.ServiceName,
		Status:         string(result.Status),
		ResponseTimeMS: result.ResponseTimeMS,
		CheckedAt:      checkedAt,
	}
	if err := m.gateway.AppendHistory(ctx, record); err != nil {
		m.metrics.IncStoreErrors()
		result.Err = err.Error()
		return result
	}

	result.Success = probeErr == nil
	return result
}

// fallback applies the secondary-probe chain for services that declare a
// generic fallback health endpoint. When the fallback responds, its
// classification substitutes for the failed primary. When both fail the
// service defaults to operational with no response time: for webhook-style
// services a missing webhook health route must not read as a full outage.
// The second return reports whether a latency sample was obtained.
func (m *Monitor) fallback(ctx context.Context, svc store.ServiceState, primary probe.Result) (probe.Result, bool) {
	secondary := m.prober.Probe(ctx, probe.Target{
		Name:    svc.ServiceName,
		URL:     svc.FallbackURL,
		Timeout: m.probeTimeout(svc),
	})
	if secondary.TransportErr == nil {
		m.logger.Debug().
			Str("service", svc.ServiceName).
			Str("status", string(secondary.Status)).
			Msg("fallback probe substituted for failed primary")
		return secondary, true
	}

	m.logger.Warn().
		Str("service", svc.ServiceName).
		AnErr("primary", primary.TransportErr).
		AnErr("fallback", secondary.TransportErr).
		Msg("both probes unreachable, defaulting to operational")
	return probe.Result{Status: status.Operational}, false
}

func (m *Monitor) probeTimeout(svc store.ServiceState) time.Duration {
	if svc.TimeoutMS > 0 {
		return time.Duration(svc.TimeoutMS) * time.Millisecond
	}
	return m.defaultTimeout
}

func (m *Monitor) logTransitions(previous map[string]status.Status, report CycleReport) {
	current := make(map[string]status.Status, len(report.Results))
	for _, result := range report.Results {
		current[result.ServiceName] = result.Status
	}

	for _, change := range transition.Detect(previous, current) {
		event := m.logger.Info()
		switch change.CurrentStatus {
		case status.Outage:
			event = m.logger.Error()
		case status.Degraded:
			event = m.logger.Warn()
		}
		event.
			Str("service", change.Name).
			Str("previous_status", string(change.PreviousStatus)).
			Str("current_status", string(change.CurrentStatus)).
			Msg("service status transition")
	}
}

func (m *Monitor) recordCycle(services []store.ServiceState, report CycleReport, elapsed time.Duration) {
	counts := make(map[status.Status]int)
	checked := make(map[string]status.Status, len(report.Results))
	for _, result := range report.Results {
		checked[result.ServiceName] = result.Status
	}
	for _, svc := range services {
		if current, ok := checked[svc.ServiceName]; ok {
			counts[current]++
		} else {
			counts[status.Normalize(svc.Status)]++
		}
	}

	for _, s := range []status.Status{status.Operational, status.Degraded, status.Outage, status.Maintenance} {
		m.metrics.SetServicesTotal(string(s), counts[s])
	}
	m.metrics.ObserveCycleDuration(elapsed)
	m.metrics.SetLastSuccessfulCycleTimestamp(report.Timestamp)
	m.tracker.RecordCycle(elapsed, report.Checked)

	m.logger.Info().
		Int("checked", report.Checked).
		Dur("elapsed", elapsed).
		Msg("check cycle complete")
}
