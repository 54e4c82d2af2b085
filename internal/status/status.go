package status

// Status represents the health of a monitored service.
type Status string

const (
	Operational Status = "operational"
	Degraded    Status = "degraded"
	Outage      Status = "outage"
	Maintenance Status = "maintenance"
)

// Category partitions services for presentation grouping only.
type Category string

const (
	CategoryCore           Category = "core"
	CategoryInfrastructure Category = "infrastructure"
	CategoryPayment        Category = "payment"
)

// Normalize maps the looser synonym set allowed in persisted records
// (healthy, warning, down) onto the canonical taxonomy. Unknown values
// default to operational.
func Normalize(raw string) Status {
	switch raw {
	case "operational", "healthy":
		return Operational
	case "degraded", "warning":
		return Degraded
	case "outage", "down":
		return Outage
	case "maintenance":
		return Maintenance
	default:
		return Operational
	}
}

// IsOperational reports whether a raw persisted status counts as an
// operational sample for uptime purposes.
func IsOperational(raw string) bool {
	return raw == string(Operational) || raw == "healthy"
}
