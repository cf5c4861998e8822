package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/workplan/app/plugins"
	"github.com/kilianp07/workplan/core/history"
	"github.com/kilianp07/workplan/core/metrics"
	"github.com/kilianp07/workplan/core/sensitivity"
	"github.com/kilianp07/workplan/core/solver"
	"github.com/kilianp07/workplan/infra/monitoring"
	"github.com/kilianp07/workplan/infra/mqtt"
)

type Config struct {
	Solver      solver.Config               `json:"solver"`
	Sensitivity sensitivity.Config          `json:"sensitivity"`
	History     history.Config              `json:"history"`
	Scenarios   plugins.ScenarioStoreConfig `json:"scenarios"`
	Metrics     metrics.Config              `json:"metrics"`
	Server      ServerConfig                `json:"server"`
	MQTT        mqtt.Config                 `json:"mqtt"`
	Sentry      monitoring.Config           `json:"sentry"`
}

// Load reads the configuration file at path, applies K_ prefixed environment
// overrides (K_SOLVER__MAX_NODES sets solver.max_nodes) and fills defaults.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Solver.SetDefaults()
	c.Sensitivity.SetDefaults()
	c.History.SetDefaults()
	c.Scenarios.SetDefaults()
	c.Server.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Scenarios.Validate(); err != nil {
		return fmt.Errorf("scenarios: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}
