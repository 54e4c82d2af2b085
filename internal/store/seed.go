package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Seed reconciles the catalog-defined services and incidents into the
// database. New services are created with their seed state; existing
// services only get their catalog-owned fields (url, description, category,
// timeout, fallback url) refreshed so live status, uptime and history are
// never clobbered. Incidents are created once and never updated.
func (s *GormStore) Seed(ctx context.Context, services []ServiceState, incidents []Incident) error {
	for _, seed := range services {
		var existing ServiceState
		err := s.db.WithContext(ctx).
			Where("service_name = ?", seed.ServiceName).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.db.WithContext(ctx).Create(&seed).Error; err != nil {
				return fmt.Errorf("seed service %s: %w", seed.ServiceName, err)
			}
			s.logger.Info().Str("service", seed.ServiceName).Msg("seeded service")
		case err != nil:
			return fmt.Errorf("seed service %s: %w", seed.ServiceName, err)
		default:
			err := s.db.WithContext(ctx).
				Model(&ServiceState{}).
				Where("service_name = ?", seed.ServiceName).
				Updates(map[string]any{
					"url":             seed.URL,
					"description":     seed.Description,
					"category":        seed.Category,
					"timeout_ms":      seed.TimeoutMS,
					"expected_status": seed.ExpectedStatus,
					"fallback_url":    seed.FallbackURL,
				}).Error
			if err != nil {
				return fmt.Errorf("refresh service %s: %w", seed.ServiceName, err)
			}
		}
	}

	for _, incident := range incidents {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&Incident{}).
			Where("id = ?", incident.ID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("seed incident %s: %w", incident.ID, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&incident).Error; err != nil {
			return fmt.Errorf("seed incident %s: %w", incident.ID, err)
		}
	}

	return nil
}

// EncodeAffectedServices serializes a service-name list for storage.
func EncodeAffectedServices(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// DecodeAffectedServices parses a stored service-name list. Corrupt values
// decode as empty rather than failing an incident read.
func DecodeAffectedServices(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return []string{}
	}
	return names
}
