package uptime

import (
	"context"
	"time"

	"github.com/LicenseChain/Status/internal/status"
	"github.com/LicenseChain/Status/internal/store"
)

const (
	// historyWindow is the trailing window of samples considered.
	historyWindow = 24 * time.Hour
	// historyLimit caps how many recent samples are read per service.
	historyLimit = 100

	operationalStep = 0.01
	failureStep     = 0.1
)

// HistoryReader supplies recent probe samples for a service, newest first.
type HistoryReader interface {
	RecentHistory(ctx context.Context, serviceName string, since time.Time, limit int) ([]store.CheckHistoryRecord, error)
}

// Estimator derives a rolling uptime percentage from stored samples.
type Estimator struct {
	history HistoryReader
	now     func() time.Time
}

// NewEstimator constructs an Estimator over the given history reader.
func NewEstimator(history HistoryReader) *Estimator {
	return &Estimator{history: history, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (e *Estimator) WithClock(now func() time.Time) *Estimator {
	e.now = now
	return e
}

// Estimate computes the new uptime for a service. With history it is the
// plain ratio of operational samples in the trailing window; with no
// history yet it nudges the previous value instead so a brand-new service
// has a defined uptime before any samples accumulate. The result is always
// within [0,100].
func (e *Estimator) Estimate(ctx context.Context, serviceName string, current status.Status, previous float64) (float64, error) {
	since := e.now().Add(-historyWindow)
	records, err := e.history.RecentHistory(ctx, serviceName, since, historyLimit)
	if err != nil {
		return 0, err
	}

	if len(records) > 0 {
		operational := 0
		for _, record := range records {
			if status.IsOperational(record.Status) {
				operational++
			}
		}
		return 100 * float64(operational) / float64(len(records)), nil
	}

	if current == status.Operational {
		return clamp(previous + operationalStep), nil
	}
	return clamp(previous - failureStep), nil
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
