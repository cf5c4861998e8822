// Package plugins maps backend names found in configuration to constructors.
package plugins

import (
	"fmt"
	"sort"

	"github.com/kilianp07/workplan/core/scenario"
)

// ScenarioStoreConfig selects the scenario backend.
type ScenarioStoreConfig struct {
	// Backend is "memory", "sqlite" or "file".
	Backend string `json:"backend"`
	// Path is the database or plan document location.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *ScenarioStoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "workplan-scenarios.db"
		case "file":
			c.Path = "workplan-scenarios.json"
		}
	}
}

// Validate checks that the backend is registered.
func (c ScenarioStoreConfig) Validate() error {
	if _, ok := ScenarioStores[c.Backend]; !ok {
		return fmt.Errorf("unknown scenario backend %q (known: %v)", c.Backend, ScenarioBackends())
	}
	return nil
}

// ScenarioStoreFactory opens a scenario store at path.
type ScenarioStoreFactory func(path string) (scenario.Store, error)

var ScenarioStores = map[string]ScenarioStoreFactory{}

func RegisterScenarioStore(name string, f ScenarioStoreFactory) { ScenarioStores[name] = f }

// ScenarioBackends lists the registered backend names in order.
func ScenarioBackends() []string {
	names := make([]string, 0, len(ScenarioStores))
	for n := range ScenarioStores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewScenarioStore opens the backend named by cfg.
func NewScenarioStore(cfg ScenarioStoreConfig) (scenario.Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := ScenarioStores[cfg.Backend](cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("scenario store %s: %w", cfg.Backend, err)
	}
	return s, nil
}
