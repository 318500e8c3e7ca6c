// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/risk"
	"github.com/josefhalfman/All-in-one-Solana-Trade-Bot/internal/strategy"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	Seed        uint64 `yaml:"seed"`
}

// Market selects the market data provider. VenueJitter is the half-width of the simulated
// arbitrage quote noise; zero keeps the coordinator default.
type Market struct {
	Provider          string  `yaml:"provider"`
	Symbol            string  `yaml:"symbol"`
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutMs         int     `yaml:"timeout_ms"`
	SimulateMissing   bool    `yaml:"simulate_missing"`
	WarmupDays        int     `yaml:"warmup_days"`
	VenueJitter       float64 `yaml:"venue_jitter"`
}

// Execution tunes the simulated venue.
type Execution struct {
	MinLatencyMs int     `yaml:"min_latency_ms"`
	MaxLatencyMs int     `yaml:"max_latency_ms"`
	FailureRate  float64 `yaml:"failure_rate"`
}

// MinLatency converts the configured bound to a duration.
func (e Execution) MinLatency() time.Duration {
	return time.Duration(e.MinLatencyMs) * time.Millisecond
}

// MaxLatency converts the configured bound to a duration.
func (e Execution) MaxLatency() time.Duration {
	return time.Duration(e.MaxLatencyMs) * time.Millisecond
}

// Journal controls where order events are persisted. Empty paths disable a sink.
type Journal struct {
	JSONLPath    string  `yaml:"jsonl_path"`
	SQLitePath   string  `yaml:"sqlite_path"`
	Buffer       int     `yaml:"buffer"`
	StartingCash float64 `yaml:"starting_cash"`
}

// Strategy declares one runner: which variant, how often it ticks, and its parameters.
type Strategy struct {
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind"`
	IntervalMs int             `yaml:"interval_ms"`
	Enabled    bool            `yaml:"enabled"`
	Params     strategy.Params `yaml:"params"`
}

// Interval converts the tick cadence to a duration.
func (s Strategy) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App        App         `yaml:"app"`
	Market     Market      `yaml:"market"`
	Execution  Execution   `yaml:"execution"`
	Risk       risk.Limits `yaml:"risk"`
	Journal    Journal     `yaml:"journal"`
	Strategies []Strategy  `yaml:"strategies"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Enabled returns the strategies that should run.
func (c *Config) Enabled() []Strategy {
	out := make([]Strategy, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Find returns a pointer to the named strategy entry, or nil.
func (c *Config) Find(name string) *Strategy {
	for i := range c.Strategies {
		if strings.EqualFold(c.Strategies[i].Name, name) {
			return &c.Strategies[i]
		}
	}
	return nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	known := make(map[string]bool)
	for _, k := range strategy.Kinds() {
		known[k] = true
	}
	seen := make(map[string]bool, len(c.Strategies))
	for i, s := range c.Strategies {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("strategies[%d]", i)
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		}
		if seen[strings.ToLower(s.Name)] {
			errs = append(errs, fmt.Errorf("%s: duplicate strategy name", label))
		}
		seen[strings.ToLower(s.Name)] = true
		if !known[strings.ToLower(strings.TrimSpace(s.Kind))] {
			errs = append(errs, fmt.Errorf("%s: unknown kind %q", label, s.Kind))
		}
		if s.IntervalMs <= 0 {
			errs = append(errs, fmt.Errorf("%s: interval_ms must be positive", label))
		}
	}
	if c.Execution.MinLatencyMs < 0 || c.Execution.MaxLatencyMs < c.Execution.MinLatencyMs {
		errs = append(errs, fmt.Errorf("execution: latency bounds %d..%d are invalid", c.Execution.MinLatencyMs, c.Execution.MaxLatencyMs))
	}
	if c.Execution.FailureRate < 0 || c.Execution.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("execution: failure_rate must be within [0, 1]"))
	}
	if c.Market.VenueJitter < 0 {
		errs = append(errs, fmt.Errorf("market: venue_jitter must not be negative"))
	}
	if c.Journal.Buffer < 0 || c.Journal.StartingCash < 0 {
		errs = append(errs, fmt.Errorf("journal: buffer and starting_cash must not be negative"))
	}
	if c.Risk.MaxAmountPerOrder < 0 || c.Risk.MaxNotionalPerOrder < 0 {
		errs = append(errs, fmt.Errorf("risk: limits must not be negative"))
	}
	return errors.Join(errs...)
}
