// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "1500ms", "2s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all monitoring configuration.
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Thresholds Thresholds `yaml:"thresholds"`
	Buffers    Buffers    `yaml:"buffers"`
	ML         ML         `yaml:"ml"`
	Metrics    Metrics    `yaml:"metrics"`
	Logging    Logging    `yaml:"logging"`
}

// Simulation holds the synthetic sensor model settings.
type Simulation struct {
	TickInterval Duration `yaml:"tick_interval"`
	InitialTemp  float64  `yaml:"initial_temp"` // °F
	DriftRate    float64  `yaml:"drift_rate"`   // °F per second after degradation onset
}

// Thresholds holds the condition classification and debounce settings.
type Thresholds struct {
	High     float64  `yaml:"high"` // °F
	Low      float64  `yaml:"low"`  // °F
	Debounce Duration `yaml:"debounce"`
}

// Buffers holds the bounded in-memory sequence capacities.
type Buffers struct {
	History int `yaml:"history"`
	Alerts  int `yaml:"alerts"`
	Tasks   int `yaml:"tasks"`
}

// ML holds the fault-predictor settings.
type ML struct {
	Enabled bool     `yaml:"enabled"`
	Timeout Duration `yaml:"timeout"`
}

// Metrics holds the Prometheus endpoint settings.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Logging holds logging settings.
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Simulation: Simulation{
			TickInterval: Duration{1500 * time.Millisecond},
			InitialTemp:  60.0,
			DriftRate:    0.5,
		},
		Thresholds: Thresholds{
			High:     85.0,
			Low:      50.0,
			Debounce: Duration{1500 * time.Millisecond},
		},
		Buffers: Buffers{
			History: 300,
			Alerts:  100,
			Tasks:   100,
		},
		ML: ML{
			Enabled: true,
			Timeout: Duration{500 * time.Millisecond},
		},
		Metrics: Metrics{
			Enabled: false,
			Listen:  ":9090",
		},
		Logging: Logging{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — use defaults + env overrides
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags. Zero values are
// treated as "not set" and skipped.
type CLIOverrides struct {
	TickInterval time.Duration
	InitialTemp  float64
	DriftRate    float64
	LogLevel     string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	candidates := configSearchPaths()
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no external file)
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	// Layer 1: embedded config (lowest priority data layer)
	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	// Layer 2: external YAML file
	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0] // caller-supplied (may be "")
	} else {
		filePath = Locate() // auto-discover
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	// Layer 3: environment variables
	applyEnvOverrides(cfg)

	// Layer 4: CLI flags (highest priority)
	if cli.TickInterval > 0 {
		cfg.Simulation.TickInterval = Duration{cli.TickInterval}
	}
	if cli.InitialTemp != 0 {
		cfg.Simulation.InitialTemp = cli.InitialTemp
	}
	if cli.DriftRate != 0 {
		cfg.Simulation.DriftRate = cli.DriftRate
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have the highest data-layer precedence.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("EM_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if high := os.Getenv("EM_HIGH_THRESHOLD"); high != "" {
		if v, err := strconv.ParseFloat(high, 64); err == nil {
			cfg.Thresholds.High = v
		}
	}
	if low := os.Getenv("EM_LOW_THRESHOLD"); low != "" {
		if v, err := strconv.ParseFloat(low, 64); err == nil {
			cfg.Thresholds.Low = v
		}
	}
	if ml := os.Getenv("EM_ML_ENABLED"); ml != "" {
		if v, err := strconv.ParseBool(ml); err == nil {
			cfg.ML.Enabled = v
		}
	}
}

// Validate checks that the configuration describes a runnable monitor.
// Threshold, debounce, and capacity errors are fatal to the run: the
// engine refuses to start until the configuration is corrected.
func (c *Config) Validate() error {
	if c.Thresholds.Low >= c.Thresholds.High {
		return fmt.Errorf("low threshold (%.1f) must be below high threshold (%.1f)",
			c.Thresholds.Low, c.Thresholds.High)
	}
	if c.Thresholds.Debounce.Duration < 0 {
		return fmt.Errorf("debounce must not be negative (got %v)", c.Thresholds.Debounce.Duration)
	}
	if c.Simulation.TickInterval.Duration <= 0 {
		return fmt.Errorf("tick interval must be positive (got %v)", c.Simulation.TickInterval.Duration)
	}
	if c.Buffers.History <= 0 || c.Buffers.Alerts <= 0 || c.Buffers.Tasks <= 0 {
		return fmt.Errorf("buffer capacities must be positive (history=%d alerts=%d tasks=%d)",
			c.Buffers.History, c.Buffers.Alerts, c.Buffers.Tasks)
	}
	if c.ML.Enabled && c.ML.Timeout.Duration <= 0 {
		return fmt.Errorf("ml timeout must be positive when ml is enabled (got %v)", c.ML.Timeout.Duration)
	}
	return nil
}
