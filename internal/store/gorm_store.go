package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const openMaxElapsed = 15 * time.Second

// GormStore is the SQLite-backed Gateway implementation.
type GormStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open connects to the SQLite database at path, retrying transient open
// failures with exponential backoff, and migrates the schema.
func Open(path string, logger zerolog.Logger) (*GormStore, error) {
	var db *gorm.DB

	openOnce := func() error {
		var err error
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		return err
	}

	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.MaxElapsedTime = openMaxElapsed
	if err := backoff.Retry(openOnce, backoffCfg); err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&ServiceState{}, &CheckHistoryRecord{}, &Incident{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &GormStore{db: db, logger: logger}, nil
}

// ListServices implements Gateway.
func (s *GormStore) ListServices(ctx context.Context) ([]ServiceState, error) {
	var services []ServiceState
	err := s.db.WithContext(ctx).
		Order("service_name asc").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// UpdateServiceState implements Gateway.
func (s *GormStore) UpdateServiceState(ctx context.Context, state ServiceState) error {
	result := s.db.WithContext(ctx).
		Model(&ServiceState{}).
		Where("service_name = ?", state.ServiceName).
		Updates(map[string]any{
			"status":           state.Status,
			"response_time_ms": state.ResponseTimeMS,
			"uptime_percent":   state.UptimePercent,
			"last_checked_at":  state.LastCheckedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update service %s: %w", state.ServiceName, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update service %s: not found", state.ServiceName)
	}
	return nil
}

// AppendHistory implements Gateway.
func (s *GormStore) AppendHistory(ctx context.Context, record CheckHistoryRecord) error {
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("append history for %s: %w", record.ServiceName, err)
	}
	return nil
}

// RecentHistory implements Gateway.
func (s *GormStore) RecentHistory(ctx context.Context, serviceName string, since time.Time, limit int) ([]CheckHistoryRecord, error) {
	var records []CheckHistoryRecord
	err := s.db.WithContext(ctx).
		Where("service_name = ? AND checked_at >= ?", serviceName, since).
		Order("checked_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("recent history for %s: %w", serviceName, err)
	}
	return records, nil
}

// ListIncidents implements Gateway.
func (s *GormStore) ListIncidents(ctx context.Context, statusFilter string, limit int) ([]Incident, error) {
	query := s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}
	var incidents []Incident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}
