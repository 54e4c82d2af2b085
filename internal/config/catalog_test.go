package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog_Valid(t *testing.T) {
	path := writeCatalog(t, `
services:
  - name: API Service
    url: https://api.example.com/health
    timeout_ms: 5000
    expected_status: 200
    category: core
    description: Core API endpoints
  - name: Payment Processing
    url: https://api.example.com/webhooks/health
    fallback_health_url: https://api.example.com/health
    category: payment
  - name: Authentication
    category: core
    status: operational
    uptime: 99.9
    response_time_ms: 67
incidents:
  - id: inc-001
    title: Scheduled Maintenance
    status: resolved
    affected_services: [API Service]
`)

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	if len(catalog.Services) != 3 {
		t.Fatalf("expected 3 services, got %d", len(catalog.Services))
	}
	api := catalog.Services[0]
	if api.Name != "API Service" || api.TimeoutMS != 5000 || api.ExpectedStatus != 200 {
		t.Fatalf("unexpected api entry %+v", api)
	}
	payment := catalog.Services[1]
	if payment.FallbackHealthURL != "https://api.example.com/health" {
		t.Fatalf("expected fallback url, got %q", payment.FallbackHealthURL)
	}
	auth := catalog.Services[2]
	if auth.URL != "" || auth.Uptime != 99.9 || auth.ResponseTimeMS != 67 {
		t.Fatalf("unexpected auth entry %+v", auth)
	}

	if len(catalog.Incidents) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(catalog.Incidents))
	}
	if catalog.Incidents[0].AffectedServices[0] != "API Service" {
		t.Fatalf("unexpected affected services %v", catalog.Incidents[0].AffectedServices)
	}
}

func TestLoadCatalog_EmptyPathIsEmptyCatalog(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(catalog.Services) != 0 || len(catalog.Incidents) != 0 {
		t.Fatalf("expected empty catalog, got %+v", catalog)
	}
}

func TestLoadCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"no_services": `
services: []
`,
		"missing_name": `
services:
  - url: https://api.example.com/health
`,
		"duplicate_name": `
services:
  - name: API Service
  - name: API Service
`,
		"bad_url_scheme": `
services:
  - name: API Service
    url: ftp://api.example.com/health
`,
		"bad_fallback_url": `
services:
  - name: API Service
    fallback_health_url: "not a url"
`,
		"negative_timeout": `
services:
  - name: API Service
    timeout_ms: -5
`,
		"unknown_category": `
services:
  - name: API Service
    category: misc
`,
		"unknown_status": `
services:
  - name: API Service
    status: broken
`,
		"uptime_out_of_range": `
services:
  - name: API Service
    uptime: 101
`,
		"incident_missing_id": `
services:
  - name: API Service
incidents:
  - title: Something happened
    status: resolved
`,
		"incident_missing_title": `
services:
  - name: API Service
incidents:
  - id: inc-001
    status: resolved
`,
		"incident_bad_status": `
services:
  - name: API Service
incidents:
  - id: inc-001
    title: Something happened
    status: pending
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeCatalog(t, content)
			if _, err := LoadCatalog(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
