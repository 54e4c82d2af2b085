package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envHTTPPort       = "STATUS_HTTP_PORT"
	envDBPath         = "STATUS_DB_PATH"
	envCatalogFile    = "STATUS_CATALOG_FILE"
	envCronSecret     = "STATUS_CRON_SECRET"
	envPollInterval   = "STATUS_POLL_INTERVAL"
	envSlowThreshold  = "STATUS_SLOW_THRESHOLD"
	envDefaultTimeout = "STATUS_DEFAULT_TIMEOUT"
	envLogLevel       = "STATUS_LOG_LEVEL"
)

const (
	defaultHTTPPort      = 8080
	defaultDBPath        = "status.db"
	defaultSlowThreshold = 5 * time.Second
	defaultProbeTimeout  = 10 * time.Second
	defaultLogLevel      = "info"
)

// Config describes runtime configuration loaded from the environment.
type Config struct {
	HTTPPort       int
	DBPath         string
	CatalogFile    string
	CronSecret     string
	PollInterval   time.Duration
	SlowThreshold  time.Duration
	DefaultTimeout time.Duration
	LogLevel       string
}

// Load reads configuration from environment variables and a local .env file
// if present. Existing environment variables take precedence over values in
// .env. A zero PollInterval disables the internal scheduler; cycles then run
// only when the cron endpoint is triggered.
func Load() (Config, error) {
	if err := loadDotEnvIfPresent(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:       defaultHTTPPort,
		DBPath:         defaultDBPath,
		SlowThreshold:  defaultSlowThreshold,
		DefaultTimeout: defaultProbeTimeout,
		LogLevel:       defaultLogLevel,
	}

	if value, ok := lookupTrimmed(envHTTPPort); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envHTTPPort, err)
		}
		if port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("%s must be in 1..65535", envHTTPPort)
		}
		cfg.HTTPPort = port
	}

	if value, ok := lookupTrimmed(envDBPath); ok {
		if value == "" {
			return Config{}, fmt.Errorf("%s must not be empty", envDBPath)
		}
		cfg.DBPath = value
	}

	if value, ok := lookupTrimmed(envCatalogFile); ok {
		cfg.CatalogFile = value
	}

	if value, ok := lookupTrimmed(envCronSecret); ok {
		cfg.CronSecret = value
	}

	if value, ok := lookupTrimmed(envPollInterval); ok {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envPollInterval, err)
		}
		if interval < 0 {
			return Config{}, fmt.Errorf("%s must not be negative", envPollInterval)
		}
		cfg.PollInterval = interval
	}

	if value, ok := lookupTrimmed(envSlowThreshold); ok {
		threshold, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envSlowThreshold, err)
		}
		if threshold <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than zero", envSlowThreshold)
		}
		cfg.SlowThreshold = threshold
	}

	if value, ok := lookupTrimmed(envDefaultTimeout); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envDefaultTimeout, err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than zero", envDefaultTimeout)
		}
		cfg.DefaultTimeout = timeout
	}

	if value, ok := lookupTrimmed(envLogLevel); ok {
		cfg.LogLevel = strings.ToLower(value)
	}

	return cfg, nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func loadDotEnvIfPresent(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return nil
	}

	return err
}
