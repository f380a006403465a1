package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/studiopulse/aggregator/internal/identity"
	"github.com/studiopulse/aggregator/internal/sources"
)

const (
	configPathEnv  = "AGGREGATOR_CONFIG"
	databaseURLEnv = "DATABASE_URL"
)

// Config holds everything the aggregator needs at startup.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Logging     LoggingConfig     `yaml:"logging"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Sources     sources.Config    `yaml:"sources"`
	// IdentityKeys overrides the compiled-in per-source natural key table.
	IdentityKeys identity.KeySets `yaml:"identity_keys"`
}

// DatabaseConfig describes the canonical store connection.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AggregationConfig tunes the merge engine.
type AggregationConfig struct {
	// BootstrapWindow bounds the first-ever run's snapshot read.
	BootstrapWindow Duration `yaml:"bootstrap_window"`
}

// Duration wraps time.Duration so yaml files can carry "24h" style strings;
// yaml.v3 has no native duration support. Raw integers are read as
// nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("parse duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var ns int64
	if err := node.Decode(&ns); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(ns)
	return nil
}

func defaultConfig() Config {
	return Config{
		Logging:     LoggingConfig{Level: "info"},
		Aggregation: AggregationConfig{BootstrapWindow: Duration(24 * time.Hour)},
		Sources:     sources.DefaultConfig(),
	}
}

// Load reads the optional YAML file named by AGGREGATOR_CONFIG and applies
// environment overrides. A .env file is honored the same way the scrapers
// honor theirs.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if dsn := os.Getenv(databaseURLEnv); dsn != "" {
		cfg.Database.DSN = dsn
	}

	cfg = applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for fatal configuration gaps before any run begins.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("no database configured: set DATABASE_URL or database.dsn")
	}
	return nil
}

func applyDefaults(cfg Config) Config {
	def := defaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Aggregation.BootstrapWindow <= 0 {
		cfg.Aggregation.BootstrapWindow = def.Aggregation.BootstrapWindow
	}
	if cfg.Sources.ReferenceYear <= 0 {
		cfg.Sources.ReferenceYear = def.Sources.ReferenceYear
	}
	return cfg
}
