package monitor

import (
	"sort"
	"time"

	"github.com/LicenseChain/Status/internal/status"
)

// CycleResult is the outcome of one service's check within a cycle.
// Success is false when the probe failed outright (without a fallback
// recovery) or when any persistence step failed; Err carries the cause.
type CycleResult struct {
	ServiceName    string
	Status         status.Status
	ResponseTimeMS *int
	UptimePercent  float64
	Success        bool
	Err            string
}

// CycleReport lists the outcomes of one full check cycle.
type CycleReport struct {
	Checked   int
	Timestamp time.Time
	Results   []CycleResult
}

func (r *CycleReport) sort() {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].ServiceName < r.Results[j].ServiceName
	})
}
