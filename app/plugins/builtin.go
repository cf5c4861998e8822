package plugins

import (
	"github.com/kilianp07/workplan/core/scenario"
	"github.com/kilianp07/workplan/pkg/planfile"
)

func init() {
	RegisterScenarioStore("memory", func(string) (scenario.Store, error) {
		return scenario.NewMemoryStore(), nil
	})
	RegisterScenarioStore("sqlite", func(path string) (scenario.Store, error) {
		return scenario.NewSQLiteStore(path)
	})
	RegisterScenarioStore("file", func(path string) (scenario.Store, error) {
		return planfile.NewScenarioStore(path), nil
	})
}
