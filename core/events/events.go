package events

import (
	"time"

	"github.com/kilianp07/workplan/core/model"
)

// Event is implemented by every planning event.
type Event interface {
	// Topic is the short name used when the event leaves the process.
	Topic() string
}

// SolveCompleted is published after each optimization.
type SolveCompleted struct {
	RunID    string                   `json:"run_id"`
	Items    []model.WorkItem         `json:"work_types"`
	Budget   float64                  `json:"budget"`
	Result   model.OptimizationResult `json:"result"`
	Nodes    int                      `json:"nodes"`
	Duration time.Duration            `json:"duration_ns"`
	Time     time.Time                `json:"time"`
}

func (SolveCompleted) Topic() string { return "optimize" }

// SweepCompleted is published after each sensitivity sweep.
type SweepCompleted struct {
	RunID     string                   `json:"run_id"`
	Reference float64                  `json:"reference_budget"`
	Points    []model.SensitivityPoint `json:"points"`
	Duration  time.Duration            `json:"duration_ns"`
	Time      time.Time                `json:"time"`
}

func (SweepCompleted) Topic() string { return "sensitivity" }

// ScenarioAction tells what happened to a scenario.
type ScenarioAction string

const (
	ScenarioSaved   ScenarioAction = "saved"
	ScenarioDeleted ScenarioAction = "deleted"
)

// ScenarioChanged is published when scenarios are saved or deleted.
type ScenarioChanged struct {
	Names  []string       `json:"names"`
	Action ScenarioAction `json:"action"`
	Time   time.Time      `json:"time"`
}

func (ScenarioChanged) Topic() string { return "scenario" }
