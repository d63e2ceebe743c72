// Package config loads and validates the project configuration stored at
// .archmap/config.json. Callers receive an explicit *Config; there is no
// package-level singleton.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete archmap configuration (v2 schema)
type Config struct {
	Version     int    `json:"version" mapstructure:"version"`
	ProjectRoot string `json:"projectRoot" mapstructure:"projectRoot"`

	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
	Trace    TraceConfig    `json:"trace" mapstructure:"trace"`
	Subgraph SubgraphConfig `json:"subgraph" mapstructure:"subgraph"`
	Timeline TimelineConfig `json:"timeline" mapstructure:"timeline"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ScanConfig bounds the detection pipeline
type ScanConfig struct {
	Workers             int      `json:"workers" mapstructure:"workers"`
	MaxFiles            int      `json:"maxFiles" mapstructure:"maxFiles"`
	MaxFileSizeBytes    int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
	ScanTimeoutMs       int      `json:"scanTimeoutMs" mapstructure:"scanTimeoutMs"`
	IgnoreDirs          []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
	ConfidenceThreshold float64  `json:"confidenceThreshold" mapstructure:"confidenceThreshold"`
}

// TraceConfig defaults for path tracing
type TraceConfig struct {
	MaxDepth int `json:"maxDepth" mapstructure:"maxDepth"`
}

// SubgraphConfig defaults for subgraph extraction
type SubgraphConfig struct {
	Depth    int `json:"depth" mapstructure:"depth"`
	MaxNodes int `json:"maxNodes" mapstructure:"maxNodes"`
}

// TimelineConfig bounds snapshot history
type TimelineConfig struct {
	Limit int `json:"limit" mapstructure:"limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:     2,
		ProjectRoot: ".",
		Scan: ScanConfig{
			Workers:             4,
			MaxFiles:            10000,
			MaxFileSizeBytes:    1 << 20,
			ScanTimeoutMs:       60000,
			IgnoreDirs:          []string{},
			ConfidenceThreshold: 0.5,
		},
		Trace:    TraceConfig{MaxDepth: 5},
		Subgraph: SubgraphConfig{Depth: 2, MaxNodes: 50},
		Timeline: TimelineConfig{Limit: 50},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .archmap/config.json under the
// project root. A missing file yields the defaults, not an error.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 2)
	v.SetDefault("projectRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".archmap"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to .archmap/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".archmap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be >= 0")
	}
	if c.Scan.ConfidenceThreshold < 0 || c.Scan.ConfidenceThreshold > 1 {
		return fmt.Errorf("scan.confidenceThreshold must be in [0,1]")
	}
	if c.Timeline.Limit < 1 {
		return fmt.Errorf("timeline.limit must be >= 1")
	}
	if c.Subgraph.MaxNodes < 1 {
		return fmt.Errorf("subgraph.maxNodes must be >= 1")
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return fmt.Errorf("logging.format must be human or json")
	}
	return nil
}
