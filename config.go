package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"solarfarm/internal/storage"
)

const (
	modeREST    = "rest"
	modeConsole = "console"

	driverMemory = "memory"
)

type config struct {
	Mode         string       `yaml:"mode"`
	HTTPAddr     string       `yaml:"http_addr"`
	StoreDriver  string       `yaml:"store_driver"`
	DatabaseURL  string       `yaml:"database_url"`
	SQLitePath   string       `yaml:"sqlite_path"`
	LogLevel     string       `yaml:"log_level"`
	LogFormat    string       `yaml:"log_format"`
	LogOutput    string       `yaml:"log_output"`
	JWTSecret    string       `yaml:"jwt_secret"`
	AuditEnabled bool         `yaml:"audit_enabled"`
	Report       reportConfig `yaml:"report"`
}

type reportConfig struct {
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// loadConfig reads the environment, then overlays the YAML file named by
// SOLARFARM_CONFIG when set.
func loadConfig() (config, error) {
	cfg := config{
		Mode:         getenvDefault("APP_MODE", modeREST),
		HTTPAddr:     getenvDefault("HTTP_ADDR", ":8080"),
		StoreDriver:  getenvDefault("STORE_DRIVER", storage.DriverPostgres),
		DatabaseURL:  getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		SQLitePath:   getenvDefault("SQLITE_PATH", "solarfarm.db"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		LogFormat:    getenvDefault("LOG_FORMAT", "json"),
		LogOutput:    getenvDefault("LOG_OUTPUT", ""),
		JWTSecret:    getenvDefault("AUTH_JWT_SECRET", ""),
		AuditEnabled: getenvBoolDefault("AUDIT_ENABLED", false),
		Report: reportConfig{
			S3Bucket:    getenvDefault("REPORT_S3_BUCKET", ""),
			S3Region:    getenvDefault("REPORT_S3_REGION", ""),
			S3Endpoint:  getenvDefault("REPORT_S3_ENDPOINT", ""),
			S3PathStyle: getenvBoolDefault("REPORT_S3_PATH_STYLE", false),
		},
	}

	if path := os.Getenv("SOLARFARM_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if c.Mode != modeREST && c.Mode != modeConsole {
		return fmt.Errorf("config: APP_MODE must be %q or %q", modeREST, modeConsole)
	}
	switch c.StoreDriver {
	case storage.DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL or PG_DSN is required for the pgx store")
		}
	case storage.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	case driverMemory:
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Mode == modeREST && c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR is required")
	}
	return nil
}

func (c config) storageConfig() storage.Config {
	if c.StoreDriver == storage.DriverSQLite {
		return storage.Config{Driver: storage.DriverSQLite, DSN: c.SQLitePath}
	}
	return storage.Config{Driver: storage.DriverPostgres, DSN: c.DatabaseURL, MaxOpenConns: 10, MaxIdleConns: 5}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
