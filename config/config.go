package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the tool.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Sim     SimConfig     `yaml:"sim"`
	Follow  FollowConfig  `yaml:"follow"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds the upstream base URLs.
type APIConfig struct {
	DataBase string `yaml:"data_base"`
}

// StorageConfig controls where fetched trades and run history persist.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// SimConfig holds the replay defaults; flags override per invocation.
type SimConfig struct {
	InitialCapital float64 `yaml:"initial_capital"`
	FollowRatio    float64 `yaml:"follow_ratio"`     // ratio mode, 1.0 = mirror
	FixedBudget    float64 `yaml:"fixed_budget"`     // > 0 switches to fixed-notional mode
	PartialFills   bool    `yaml:"partial_fills"`
	Timezone       string  `yaml:"timezone"` // IANA name for hour buckets; empty = UTC
}

// FollowConfig controls the live follow loop.
type FollowConfig struct {
	PollSeconds int `yaml:"poll_seconds"`
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file and the .env file if present.
// Environment variables override the YAML for the keys they map to.
func Load(path string) (*Config, error) {
	// Load .env when present; a missing file is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// No file is fine; env vars and defaults carry the tool.
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// PollInterval returns the follow-loop poll interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Follow.PollSeconds) * time.Second
}

// applyEnvOverrides overrides values from environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("POLYCOPY_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("POLYCOPY_DATA_API"); v != "" {
		cfg.API.DataBase = v
	}
}

// setDefaults ensures required values have sensible defaults.
func setDefaults(cfg *Config) {
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polycopy.db"
	}
	if cfg.Sim.InitialCapital <= 0 {
		cfg.Sim.InitialCapital = 1000
	}
	if cfg.Sim.FollowRatio <= 0 {
		cfg.Sim.FollowRatio = 1.0
	}
	if cfg.Follow.PollSeconds <= 0 {
		cfg.Follow.PollSeconds = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
