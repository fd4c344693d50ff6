// Package config loads endochain settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/endochain/go-core/internal/stage"
)

// #region types
// Config is the full process configuration.
type Config struct {
	Precision  int              `yaml:"precision"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Audit      AuditConfig      `yaml:"audit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ThresholdsConfig holds the stage boundaries as decimal strings.
type ThresholdsConfig struct {
	Stage0  string `yaml:"stage_0"`
	Stage12 string `yaml:"stage_1_2"`
	Stage34 string `yaml:"stage_3_4"`
}

// AuditConfig selects and configures the audit backend.
type AuditConfig struct {
	Backend      string `yaml:"backend"` // "memory" | "sqlite"
	DatabasePath string `yaml:"database_path"`
	Secret       string `yaml:"secret,omitempty"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ErrInvalidConfig matches every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// #endregion types

// #region defaults
// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Precision: 18,
		Thresholds: ThresholdsConfig{
			Stage0:  "0.018",
			Stage12: "0.08",
			Stage34: "0.25",
		},
		Audit: AuditConfig{
			Backend:      BackendSQLite,
			DatabasePath: "endochain_audit.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// #endregion defaults

// #region load
// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() {
	c.Audit.DatabasePath = envOr("ENDOCHAIN_DB", c.Audit.DatabasePath)
	c.Logging.Level = envOr("ENDOCHAIN_LOG_LEVEL", c.Logging.Level)
	c.Audit.Secret = envOr("ENDOCHAIN_AUDIT_SECRET", c.Audit.Secret)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate
// Validate checks every field.
func (c Config) Validate() error {
	if c.Precision < 0 || c.Precision > 1000 {
		return fmt.Errorf("%w: precision %d out of range [0, 1000]", ErrInvalidConfig, c.Precision)
	}
	if _, err := c.StageThresholds(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Audit.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Audit.DatabasePath == "" {
			return fmt.Errorf("%w: audit.database_path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown audit backend %q", ErrInvalidConfig, c.Audit.Backend)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// StageThresholds parses the configured boundaries.
func (c Config) StageThresholds() (stage.Thresholds, error) {
	return stage.ParseThresholds(c.Thresholds.Stage0, c.Thresholds.Stage12, c.Thresholds.Stage34)
}

// #endregion validate
