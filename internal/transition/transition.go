package transition

import (
	"sort"

	"github.com/LicenseChain/Status/internal/status"
)

// ServiceTransition captures a status change for one service between two
// consecutive check cycles.
type ServiceTransition struct {
	Name           string
	PreviousStatus status.Status
	CurrentStatus  status.Status
}

// Detect compares the statuses persisted before a cycle with the statuses
// the cycle produced and emits one transition per changed service. On the
// first ever cycle (no previous statuses) only non-operational services are
// reported, so a clean start stays quiet. New services follow the same
// rule. Output is sorted by service name for deterministic logging.
func Detect(previous map[string]status.Status, current map[string]status.Status) []ServiceTransition {
	firstRun := len(previous) == 0

	transitions := make([]ServiceTransition, 0)
	for name, currentStatus := range current {
		previousStatus, hadPrevious := previous[name]

		if firstRun || !hadPrevious {
			if currentStatus == status.Operational {
				continue
			}
		} else if previousStatus == currentStatus {
			continue
		}

		transitions = append(transitions, ServiceTransition{
			Name:           name,
			PreviousStatus: previousStatus,
			CurrentStatus:  currentStatus,
		})
	}

	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].Name < transitions[j].Name
	})

	return transitions
}
