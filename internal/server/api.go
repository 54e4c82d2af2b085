package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LicenseChain/Status/internal/status"
	"github.com/LicenseChain/Status/internal/store"
)

const (
	defaultIncidentLimit = 50
	lastCheckedLayout    = "Jan 2, 03:04 PM MST"
	cronTriggerHeader    = "X-Cron-Trigger"
)

type serviceEntry struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	LastChecked  string `json:"lastChecked"`
	ResponseTime *int   `json:"responseTime,omitempty"`
	Uptime       string `json:"uptime"`
	Category     string `json:"category"`
	URL          string `json:"url,omitempty"`
}

type statusMetrics struct {
	Operational     int    `json:"operational"`
	Total           int    `json:"total"`
	AvgResponseTime int    `json:"avgResponseTime"`
	Uptime          string `json:"uptime"`
}

type statusResponse struct {
	Status      string         `json:"status"`
	Services    []serviceEntry `json:"services"`
	Metrics     statusMetrics  `json:"metrics"`
	LastUpdated string         `json:"lastUpdated"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	services, err := s.gateway.ListServices(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("status read failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to check service status"})
		return
	}

	entries := make([]serviceEntry, 0, len(services))
	reduced := make([]status.Service, 0, len(services))
	for _, svc := range services {
		normalized := status.Normalize(svc.Status)
		entries = append(entries, serviceEntry{
			Name:         svc.ServiceName,
			Status:       string(normalized),
			Description:  svc.Description,
			LastChecked:  formatLastChecked(svc.LastCheckedAt),
			ResponseTime: svc.ResponseTimeMS,
			Uptime:       formatPercent(svc.UptimePercent),
			Category:     svc.Category,
			URL:          svc.URL,
		})
		reduced = append(reduced, status.Service{
			Name:          svc.ServiceName,
			Status:        normalized,
			ResponseTime:  svc.ResponseTimeMS,
			UptimePercent: svc.UptimePercent,
		})
	}

	summary := status.Reduce(reduced)

	writeJSON(w, http.StatusOK, statusResponse{
		Status:   string(summary.Overall),
		Services: entries,
		Metrics: statusMetrics{
			Operational:     summary.OperationalCount,
			Total:           summary.Total,
			AvgResponseTime: summary.AvgResponseTimeMS,
			Uptime:          formatPercent(summary.AvgUptimePercent),
		},
		LastUpdated: s.now().UTC().Format(time.RFC3339),
	})
}

type incidentEntry struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	AffectedServices []string `json:"affectedServices"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
	ResolvedAt       string   `json:"resolvedAt,omitempty"`
}

type incidentsResponse struct {
	Success   bool            `json:"success"`
	Incidents []incidentEntry `json:"incidents"`
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	limit := defaultIncidentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	incidents, err := s.gateway.ListIncidents(r.Context(), statusFilter, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("incident read failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch incidents"})
		return
	}

	entries := make([]incidentEntry, 0, len(incidents))
	for _, incident := range incidents {
		entry := incidentEntry{
			ID:               incident.ID,
			Title:            incident.Title,
			Description:      incident.Description,
			Status:           incident.Status,
			AffectedServices: store.DecodeAffectedServices(incident.AffectedServices),
			CreatedAt:        incident.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:        incident.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if incident.ResolvedAt != nil {
			entry.ResolvedAt = incident.ResolvedAt.UTC().Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, incidentsResponse{Success: true, Incidents: entries})
}

type cronResult struct {
	ServiceName  string `json:"serviceName"`
	Status       string `json:"status"`
	ResponseTime *int   `json:"responseTime"`
	Uptime       string `json:"uptime"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

type cronResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Checked   int          `json:"checked"`
	Timestamp string       `json:"timestamp,omitempty"`
	Results   []cronResult `json:"results,omitempty"`
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		return
	}

	report, err := s.cycles.RunCycle(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("check cycle failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to perform health checks",
			"message": err.Error(),
		})
		return
	}

	if report.Checked == 0 {
		writeJSON(w, http.StatusOK, cronResponse{
			Success: true,
			Message: "No services to check",
			Checked: 0,
		})
		return
	}

	results := make([]cronResult, 0, len(report.Results))
	for _, result := range report.Results {
		results = append(results, cronResult{
			ServiceName:  result.ServiceName,
			Status:       string(result.Status),
			ResponseTime: result.ResponseTimeMS,
			Uptime:       fmt.Sprintf("%.1f", result.UptimePercent),
			Success:      result.Success,
			Error:        result.Err,
		})
	}

	writeJSON(w, http.StatusOK, cronResponse{
		Success:   true,
		Checked:   report.Checked,
		Timestamp: report.Timestamp.Format(time.RFC3339),
		Results:   results,
	})
}

// authorizeCron accepts the trusted scheduler header or the shared secret
// as a bearer token. With no secret configured, manual triggers are
// allowed; production deployments always set one.
func (s *Server) authorizeCron(r *http.Request) bool {
	if r.Header.Get(cronTriggerHeader) == "1" {
		return true
	}
	if s.cfg.CronSecret == "" {
		return true
	}
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	return ok && token == s.cfg.CronSecret
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

func formatLastChecked(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(lastCheckedLayout)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
