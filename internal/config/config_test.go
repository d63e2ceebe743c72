package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != 2 {
		t.Errorf("Expected schema version 2, got %d", cfg.Version)
	}
	if cfg.Scan.Workers != 4 || cfg.Scan.MaxFiles != 10000 {
		t.Errorf("Unexpected scan defaults: %+v", cfg.Scan)
	}
	if cfg.Scan.ConfidenceThreshold != 0.5 {
		t.Errorf("Expected confidence threshold 0.5, got %f", cfg.Scan.ConfidenceThreshold)
	}
	if cfg.Trace.MaxDepth != 5 || cfg.Subgraph.Depth != 2 || cfg.Timeline.Limit != 50 {
		t.Error("Unexpected query defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults must validate, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("Missing config must yield defaults, got error %v", err)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Expected default workers, got %d", cfg.Scan.Workers)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".archmap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"scan": {"workers": 8}, "logging": {"format": "json"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Expected override applied, got %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json logging, got %s", cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Timeline.Limit != 50 {
		t.Errorf("Expected default timeline limit, got %d", cfg.Timeline.Limit)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Scan.ConfidenceThreshold = 0.8
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if loaded.Scan.ConfidenceThreshold != 0.8 {
		t.Errorf("Expected 0.8 after round trip, got %f", loaded.Scan.ConfidenceThreshold)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative workers", func(c *Config) { c.Scan.Workers = -1 }, true},
		{"threshold above one", func(c *Config) { c.Scan.ConfidenceThreshold = 1.5 }, true},
		{"zero timeline limit", func(c *Config) { c.Timeline.Limit = 0 }, true},
		{"zero max nodes", func(c *Config) { c.Subgraph.MaxNodes = 0 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, false},
	}
	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.expectErr && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
		if !tc.expectErr && err != nil {
			t.Errorf("%s: expected no error, got %v", tc.name, err)
		}
	}
}
