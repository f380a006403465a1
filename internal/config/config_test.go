package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestBootstrapWindowParsesDurationString(t *testing.T) {
	raw := []byte("aggregation:\n  bootstrap_window: 36h\n")

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if got := time.Duration(cfg.Aggregation.BootstrapWindow); got != 36*time.Hour {
		t.Errorf("bootstrap window = %v, want 36h", got)
	}
}

func TestBootstrapWindowParsesIntegerNanoseconds(t *testing.T) {
	raw := []byte("aggregation:\n  bootstrap_window: 3600000000000\n")

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if got := time.Duration(cfg.Aggregation.BootstrapWindow); got != time.Hour {
		t.Errorf("bootstrap window = %v, want 1h", got)
	}
}

func TestBootstrapWindowRejectsGarbage(t *testing.T) {
	raw := []byte("aggregation:\n  bootstrap_window: soonish\n")

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestApplyDefaultsFillsBootstrapWindow(t *testing.T) {
	cfg := applyDefaults(Config{})
	if got := time.Duration(cfg.Aggregation.BootstrapWindow); got != 24*time.Hour {
		t.Errorf("default bootstrap window = %v, want 24h", got)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestValidateRequiresDSN(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DSN")
	}
	cfg.Database.DSN = "file:schedule.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
