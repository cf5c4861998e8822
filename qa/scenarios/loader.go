// Package scenarios loads YAML acceptance cases for the solver and checks
// every relaxation backend against their expected outcome.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/workplan/core/model"
)

type Expected struct {
	Status     model.Status `yaml:"status"`
	Allocation []int        `yaml:"allocation,omitempty"`
	Objective  float64      `yaml:"objective"`
	// Budgets lists the sampled budgets of a sweep case.
	Budgets []float64 `yaml:"budgets,omitempty"`
}

type Case struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	WorkTypes   []model.WorkItem `yaml:"work_types"`
	Budget      float64          `yaml:"budget"`
	// Steps turns the case into a sensitivity sweep around Budget.
	Steps    int      `yaml:"steps,omitempty"`
	Expected Expected `yaml:"expected"`
}

func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
