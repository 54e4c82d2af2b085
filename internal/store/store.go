package store

import (
	"context"
	"time"
)

// ServiceState is the current known status of one monitored service,
// keyed by name. Services without a URL are manually tracked and never
// touched by check cycles.
type ServiceState struct {
	ServiceName    string    `gorm:"primaryKey" json:"service_name"`
	URL            string    `json:"url,omitempty"`
	Status         string    `gorm:"not null" json:"status"`
	ResponseTimeMS *int      `json:"response_time_ms,omitempty"`
	UptimePercent  float64   `json:"uptime_percent"`
	LastCheckedAt  time.Time `json:"last_checked_at"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	TimeoutMS      int       `json:"timeout_ms"`
	ExpectedStatus int       `json:"expected_status"`
	FallbackURL    string    `json:"fallback_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Probeable reports whether the service is eligible for automated checks.
func (s ServiceState) Probeable() bool {
	return s.URL != ""
}

// CheckHistoryRecord is one immutable probe outcome. Records are only ever
// appended; retention is an external concern.
type CheckHistoryRecord struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ServiceName    string    `gorm:"index:idx_history_service_time,priority:1;not null" json:"service_name"`
	Status         string    `gorm:"not null" json:"status"`
	ResponseTimeMS *int      `json:"response_time_ms,omitempty"`
	CheckedAt      time.Time `gorm:"index:idx_history_service_time,priority:2" json:"checked_at"`
}

// Incident is an operator-created disruption record. The monitor reads and
// filters incidents; it never creates or mutates them.
type Incident struct {
	ID               string     `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	Status           string     `gorm:"index;not null" json:"status"`
	AffectedServices string     `json:"affected_services"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// Gateway is the durable store for service state, check history and
// incidents. Implementations must be safe for concurrent use.
type Gateway interface {
	// ListServices returns all known services ordered by name.
	ListServices(ctx context.Context) ([]ServiceState, error)
	// UpdateServiceState persists the new state for an existing service.
	UpdateServiceState(ctx context.Context, state ServiceState) error
	// AppendHistory records one probe outcome.
	AppendHistory(ctx context.Context, record CheckHistoryRecord) error
	// RecentHistory returns up to limit records for a service checked at or
	// after since, newest first.
	RecentHistory(ctx context.Context, serviceName string, since time.Time, limit int) ([]CheckHistoryRecord, error)
	// ListIncidents returns incidents newest first, optionally filtered by
	// status, capped at limit.
	ListIncidents(ctx context.Context, statusFilter string, limit int) ([]Incident, error)
}
