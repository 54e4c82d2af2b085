package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Ticker is the minimal interface needed for driving the runner loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t timeTicker) Stop() {
	t.ticker.Stop()
}

// CycleFunc executes one check cycle.
type CycleFunc func(context.Context) error

// Runner drives check cycles on a fixed interval. It is the in-process
// alternative to an external cron trigger; both paths call the same cycle.
type Runner struct {
	logger        zerolog.Logger
	pollInterval  time.Duration
	tickerFactory func(time.Duration) Ticker
	cycle         CycleFunc
}

// Option customizes runner behavior.
type Option func(*Runner)

// WithTickerFactory overrides how tickers are created.
func WithTickerFactory(factory func(time.Duration) Ticker) Option {
	return func(r *Runner) {
		r.tickerFactory = factory
	}
}

// New constructs a Runner invoking cycle every pollInterval.
func New(logger zerolog.Logger, pollInterval time.Duration, cycle CycleFunc, opts ...Option) *Runner {
	r := &Runner{
		logger:       logger,
		pollInterval: pollInterval,
		cycle:        cycle,
		tickerFactory: func(d time.Duration) Ticker {
			return timeTicker{ticker: time.NewTicker(d)}
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts the loop and blocks until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	if r.pollInterval <= 0 {
		return errors.New("poll interval must be greater than zero")
	}
	if r.cycle == nil {
		return errors.New("cycle function is required")
	}

	// Run immediately on startup
	if err := r.cycle(ctx); err != nil {
		r.logger.Error().Err(err).Msg("initial check cycle failed")
	}

	ticker := r.tickerFactory(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("runner stopped")
			return nil
		case <-ticker.C():
			if err := r.cycle(ctx); err != nil {
				r.logger.Error().Err(err).Msg("check cycle failed")
			}
		}
	}
}
