package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LicenseChain/Status/internal/status"
)

// ServiceEntry declares one monitored service in the catalog. Entries
// without a URL are manually tracked: they are seeded with their static
// status and never probed.
type ServiceEntry struct {
	Name              string  `yaml:"name"`
	URL               string  `yaml:"url,omitempty"`
	TimeoutMS         int     `yaml:"timeout_ms,omitempty"`
	ExpectedStatus    int     `yaml:"expected_status,omitempty"`
	Category          string  `yaml:"category,omitempty"`
	Description       string  `yaml:"description,omitempty"`
	FallbackHealthURL string  `yaml:"fallback_health_url,omitempty"`
	Status            string  `yaml:"status,omitempty"`
	Uptime            float64 `yaml:"uptime,omitempty"`
	ResponseTimeMS    int     `yaml:"response_time_ms,omitempty"`
}

// IncidentEntry declares one incident seeded on first boot.
type IncidentEntry struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Description      string     `yaml:"description,omitempty"`
	Status           string     `yaml:"status"`
	AffectedServices []string   `yaml:"affected_services,omitempty"`
	CreatedAt        time.Time  `yaml:"created_at,omitempty"`
	UpdatedAt        time.Time  `yaml:"updated_at,omitempty"`
	ResolvedAt       *time.Time `yaml:"resolved_at,omitempty"`
}

// Catalog is the parsed YAML structure describing the monitored services
// and seed incidents.
type Catalog struct {
	Services  []ServiceEntry  `yaml:"services"`
	Incidents []IncidentEntry `yaml:"incidents,omitempty"`
}

var validCategories = map[string]bool{
	string(status.CategoryCore):           true,
	string(status.CategoryInfrastructure): true,
	string(status.CategoryPayment):        true,
}

var validServiceStatuses = map[string]bool{
	"operational": true,
	"degraded":    true,
	"outage":      true,
	"maintenance": true,
	"healthy":     true,
	"warning":     true,
	"down":        true,
}

var validIncidentStatuses = map[string]bool{
	"investigating": true,
	"identified":    true,
	"monitoring":    true,
	"resolved":      true,
}

// LoadCatalog parses a YAML catalog from the given path.
// Returns an empty catalog if path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}

	if err := validateCatalog(catalog); err != nil {
		return Catalog{}, err
	}

	return catalog, nil
}

func validateCatalog(catalog Catalog) error {
	if len(catalog.Services) == 0 {
		return fmt.Errorf("catalog contains no services")
	}

	seen := make(map[string]bool)

	for i, svc := range catalog.Services {
		if svc.Name == "" {
			return fmt.Errorf("service %d: name is required", i)
		}
		if seen[svc.Name] {
			return fmt.Errorf("service %q: duplicate name", svc.Name)
		}
		seen[svc.Name] = true

		if svc.URL != "" {
			if err := validateHTTPURL(svc.URL, "url"); err != nil {
				return fmt.Errorf("service %q: %w", svc.Name, err)
			}
		}
		if svc.FallbackHealthURL != "" {
			if err := validateHTTPURL(svc.FallbackHealthURL, "fallback_health_url"); err != nil {
				return fmt.Errorf("service %q: %w", svc.Name, err)
			}
		}
		if svc.TimeoutMS < 0 {
			return fmt.Errorf("service %q: timeout_ms cannot be negative", svc.Name)
		}
		if svc.Category != "" && !validCategories[svc.Category] {
			return fmt.Errorf("service %q: unknown category %q", svc.Name, svc.Category)
		}
		if svc.Status != "" && !validServiceStatuses[svc.Status] {
			return fmt.Errorf("service %q: unknown status %q", svc.Name, svc.Status)
		}
		if svc.Uptime < 0 || svc.Uptime > 100 {
			return fmt.Errorf("service %q: uptime must be within 0..100", svc.Name)
		}
	}

	for i, incident := range catalog.Incidents {
		if incident.ID == "" {
			return fmt.Errorf("incident %d: id is required", i)
		}
		if incident.Title == "" {
			return fmt.Errorf("incident %q: title is required", incident.ID)
		}
		if !validIncidentStatuses[incident.Status] {
			return fmt.Errorf("incident %q: unknown status %q", incident.ID, incident.Status)
		}
	}

	return nil
}

func validateHTTPURL(value, name string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid %s: must include host", name)
	}
	return nil
}
