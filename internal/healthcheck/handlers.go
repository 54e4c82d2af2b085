package healthcheck

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler serves /healthz: 200 while check cycles keep landing
// inside the staleness budget for the given poll interval, 503 otherwise.
func HealthHandler(tracker *Tracker, pollInterval time.Duration) http.HandlerFunc {
	return serveSnapshot(tracker, func() bool {
		return tracker.Healthy(time.Now().UTC(), pollInterval)
	})
}

// ReadyHandler serves /readyz: 200 once the first cycle has completed.
func ReadyHandler(tracker *Tracker) http.HandlerFunc {
	return serveSnapshot(tracker, tracker.Ready)
}

func serveSnapshot(tracker *Tracker, pass func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := http.StatusServiceUnavailable
		if pass() {
			code = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(tracker.Snapshot())
	}
}
