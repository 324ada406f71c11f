package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLayered_CLIOverridesEverything(t *testing.T) {
	embedded := []byte("thresholds:\n  high: 90\nlogging:\n  level: \"debug\"")
	t.Setenv("EM_LOG_LEVEL", "warn")
	cli := CLIOverrides{LogLevel: "error", InitialTemp: 72.5}

	cfg, err := LoadLayered(cli, embedded, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Level = %q, want CLI override", cfg.Logging.Level)
	}
	if cfg.Simulation.InitialTemp != 72.5 {
		t.Errorf("InitialTemp = %v, want CLI override", cfg.Simulation.InitialTemp)
	}
}

func TestLoadLayered_EnvOverridesEmbed(t *testing.T) {
	embedded := []byte("thresholds:\n  high: 90\n  low: 45")
	t.Setenv("EM_HIGH_THRESHOLD", "95")

	cfg, err := LoadLayered(CLIOverrides{}, embedded, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.High != 95 {
		t.Errorf("High = %v, want env override", cfg.Thresholds.High)
	}
	if cfg.Thresholds.Low != 45 {
		t.Errorf("Low = %v, want embedded value", cfg.Thresholds.Low)
	}
}

func TestLoadLayered_DefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadLayered(CLIOverrides{}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.TickInterval.Duration != 1500*time.Millisecond {
		t.Errorf("TickInterval = %v, want 1.5s default", cfg.Simulation.TickInterval.Duration)
	}
	if cfg.Buffers.History != 300 {
		t.Errorf("History = %d, want 300 default", cfg.Buffers.History)
	}
}

func TestLoad_ParsesDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("thresholds:\n  debounce: \"2s\"\nsimulation:\n  tick_interval: \"750ms\"")
	if err := os.WriteFile(path, data, 0640); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.Debounce.Duration != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Thresholds.Debounce.Duration)
	}
	if cfg.Simulation.TickInterval.Duration != 750*time.Millisecond {
		t.Errorf("TickInterval = %v, want 750ms", cfg.Simulation.TickInterval.Duration)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	if _, err := LoadFromBytes([]byte("thresholds:\n  debounce: \"soon\"")); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestWriteConfig_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Thresholds.High = 110

	if err := WriteConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"low above high", func(c *Config) { c.Thresholds.Low = 90 }, true},
		{"low equals high", func(c *Config) { c.Thresholds.Low = c.Thresholds.High }, true},
		{"negative debounce", func(c *Config) { c.Thresholds.Debounce = Duration{-time.Second} }, true},
		{"zero debounce is allowed", func(c *Config) { c.Thresholds.Debounce = Duration{0} }, false},
		{"zero tick interval", func(c *Config) { c.Simulation.TickInterval = Duration{0} }, true},
		{"zero history capacity", func(c *Config) { c.Buffers.History = 0 }, true},
		{"negative alert capacity", func(c *Config) { c.Buffers.Alerts = -1 }, true},
		{"ml enabled without timeout", func(c *Config) { c.ML.Timeout = Duration{0} }, true},
		{"ml disabled ignores timeout", func(c *Config) {
			c.ML.Enabled = false
			c.ML.Timeout = Duration{0}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
