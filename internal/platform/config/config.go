// Package config loads application configuration from environment
// variables. All variables use the AUDIT_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Data     DataConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL runs
// the service on in-memory stores.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings for the progress snapshot
// cache. An empty URL disables caching.
type CacheConfig struct {
	URL         string
	SnapshotTTL int // seconds
}

// DataConfig points at the on-disk reference data.
type DataConfig struct {
	CatalogPath  string
	ProgramsPath string
	TablesPath   string // optional heuristic-table override
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with AUDIT_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("AUDIT_SERVER_PORT", 8080),
			Host: envStr("AUDIT_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("AUDIT_DATABASE_URL", ""),
			MaxConns: envInt("AUDIT_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("AUDIT_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL:         envStr("AUDIT_CACHE_URL", ""),
			SnapshotTTL: envInt("AUDIT_CACHE_SNAPSHOT_TTL", 300),
		},
		Data: DataConfig{
			CatalogPath:  envStr("AUDIT_CATALOG_PATH", "./data/catalog"),
			ProgramsPath: envStr("AUDIT_PROGRAMS_PATH", "./data/programs"),
			TablesPath:   envStr("AUDIT_TABLES_PATH", ""),
		},
		Log: LogConfig{
			Level:  envStr("AUDIT_LOG_LEVEL", "info"),
			Format: envStr("AUDIT_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("AUDIT_SERVER_PORT must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Data.CatalogPath == "" {
		return fmt.Errorf("AUDIT_CATALOG_PATH is required")
	}
	if c.Data.ProgramsPath == "" {
		return fmt.Errorf("AUDIT_PROGRAMS_PATH is required")
	}
	if c.Cache.SnapshotTTL < 0 {
		return fmt.Errorf("AUDIT_CACHE_SNAPSHOT_TTL must not be negative, got %d", c.Cache.SnapshotTTL)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
