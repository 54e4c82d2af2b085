package status

import "math"

// Service is the minimal per-service view the reducer consumes.
type Service struct {
	Name          string
	Status        Status
	ResponseTime  *int
	UptimePercent float64
}

// Summary folds per-service statuses into one system-wide view.
type Summary struct {
	Overall           Status
	OperationalCount  int
	Total             int
	AvgResponseTimeMS int
	AvgUptimePercent  float64
}

// Reduce computes the overall system status and aggregate metrics.
// The reduction is binary: every service operational means operational,
// anything else means degraded. The average response time covers only
// services that have one and is 0 when none do; the average uptime of an
// empty service list is 100.
func Reduce(services []Service) Summary {
	summary := Summary{
		Overall:          Operational,
		Total:            len(services),
		AvgUptimePercent: 100,
	}

	responseTotal := 0
	responseCount := 0
	uptimeTotal := 0.0

	for _, svc := range services {
		if svc.Status == Operational {
			summary.OperationalCount++
		} else {
			summary.Overall = Degraded
		}
		if svc.ResponseTime != nil {
			responseTotal += *svc.ResponseTime
			responseCount++
		}
		uptimeTotal += svc.UptimePercent
	}

	if responseCount > 0 {
		summary.AvgResponseTimeMS = int(math.Round(float64(responseTotal) / float64(responseCount)))
	}
	if len(services) > 0 {
		summary.AvgUptimePercent = uptimeTotal / float64(len(services))
	}

	return summary
}
