package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/LicenseChain/Status/internal/status"
)

const (
	// SlowResponseThreshold is the elapsed time at or past which a
	// successful response is classified degraded instead of operational.
	SlowResponseThreshold = 5 * time.Second

	userAgent = "LicenseChain-Status-Monitor/1.0"
)

// Target describes one endpoint to probe.
type Target struct {
	Name           string
	URL            string
	Timeout        time.Duration
	ExpectedStatus int
}

// Result is the classified outcome of one probe. TransportErr is set when
// the request never produced an HTTP response (DNS, refused connection,
// deadline); the result is still fully classified and callers use
// TransportErr only to drive fallback chains.
type Result struct {
	Status       status.Status
	ResponseTime time.Duration
	TransportErr error
}

// Prober issues bounded-time health checks.
type Prober struct {
	logger zerolog.Logger
	client *retryablehttp.Client
	slow   time.Duration
	now    func() time.Time
}

// Option customizes prober behavior.
type Option func(*Prober)

// WithSlowThreshold overrides the slow-response threshold.
func WithSlowThreshold(d time.Duration) Option {
	return func(p *Prober) {
		p.slow = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		p.now = now
	}
}

// New constructs a Prober. Retries are disabled: a probe is a single
// attempt whose failure is itself the signal.
func New(logger zerolog.Logger, opts ...Option) *Prober {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.CheckRetry = func(_ context.Context, _ *http.Response, _ error) (bool, error) {
		return false, nil
	}
	client.Logger = nil
	client.HTTPClient = &http.Client{}

	p := &Prober{
		logger: logger,
		client: client,
		slow:   SlowResponseThreshold,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe issues one GET against the target. Every outcome is classified;
// Probe never returns an error and never hangs past the target timeout.
func (p *Prober) Probe(ctx context.Context, target Target) Result {
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := p.now()

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodGet, target.URL, http.NoBody)
	if err != nil {
		return Result{
			Status:       status.Outage,
			ResponseTime: p.now().Sub(start),
			TransportErr: err,
		}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	elapsed := p.now().Sub(start)
	if err != nil {
		p.logger.Debug().
			Str("service", target.Name).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("probe transport failure")
		return Result{
			Status:       status.Outage,
			ResponseTime: elapsed,
			TransportErr: err,
		}
	}
	defer resp.Body.Close()

	return Result{
		Status:       p.classify(resp.StatusCode, elapsed),
		ResponseTime: elapsed,
	}
}

func (p *Prober) classify(code int, elapsed time.Duration) status.Status {
	return Classify(code, elapsed, p.slow)
}

// Classify maps an HTTP status code and elapsed time onto the status
// taxonomy: 5xx is an outage, any other non-2xx is degraded, a success at
// or past the slow threshold is degraded, everything else is operational.
func Classify(code int, elapsed, slowThreshold time.Duration) status.Status {
	switch {
	case code >= http.StatusInternalServerError:
		return status.Outage
	case code < 200 || code >= 300:
		return status.Degraded
	case elapsed >= slowThreshold:
		return status.Degraded
	default:
		return status.Operational
	}
}
