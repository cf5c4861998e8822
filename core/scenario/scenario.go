// Package scenario keeps named snapshots of optimization results so they can
// be compared side by side.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/workplan/core/model"
)

var (
	// ErrNotFound is returned when a named scenario does not exist.
	ErrNotFound = errors.New("scenario not found")
	// ErrInvalid is returned when a result cannot be saved as a scenario.
	ErrInvalid = errors.New("invalid scenario")
)

// Row is the allocation of one work type inside a scenario.
type Row struct {
	WorkType string  `json:"Work Type" yaml:"Work Type"`
	Units    int     `json:"Units Allocated" yaml:"Units Allocated"`
	Cost     float64 `json:"Cost" yaml:"Cost"`
}

// Scenario is a saved allocation.
type Scenario struct {
	Name           string    `json:"name" yaml:"name"`
	Rows           []Row     `json:"data" yaml:"data"`
	TotalCost      float64   `json:"total_cost" yaml:"total_cost"`
	ObjectiveValue float64   `json:"objective_value" yaml:"objective_value"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// Comparison summarises one scenario for side by side display.
type Comparison struct {
	Scenario      string  `json:"scenario"`
	TotalCost     float64 `json:"total_cost"`
	PriorityValue float64 `json:"priority_value"`
}

// Store persists scenarios by name. Saving an existing name replaces it.
type Store interface {
	Save(ctx context.Context, s Scenario) error
	Get(ctx context.Context, name string) (Scenario, error)
	// List returns every scenario ordered by name.
	List(ctx context.Context) ([]Scenario, error)
	// Delete removes the named scenarios. Unknown names are ignored.
	Delete(ctx context.Context, names ...string) error
	Close() error
}

// FromResult snapshots res under name. Only results carrying an allocation can
// be saved.
func FromResult(name string, items []model.WorkItem, res model.OptimizationResult) (Scenario, error) {
	if name == "" {
		return Scenario{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !res.Status.HasAllocation() {
		return Scenario{}, fmt.Errorf("%w %q: result status %s has no allocation", ErrInvalid, name, res.Status)
	}
	if len(res.Allocation) != len(items) {
		return Scenario{}, fmt.Errorf("%w %q: %d allocations for %d work types", ErrInvalid, name, len(res.Allocation), len(items))
	}
	sc := Scenario{
		Name:           name,
		Rows:           make([]Row, len(items)),
		ObjectiveValue: res.ObjectiveValue,
		CreatedAt:      time.Now().UTC(),
	}
	for i, it := range items {
		cost := float64(res.Allocation[i]) * it.UnitCost
		sc.Rows[i] = Row{WorkType: it.Name, Units: res.Allocation[i], Cost: cost}
		sc.TotalCost += cost
	}
	return sc, nil
}

// Compare returns one comparison row per requested name, in request order.
// With no names every scenario is compared in the given order.
func Compare(scenarios []Scenario, names ...string) ([]Comparison, error) {
	if len(names) == 0 {
		out := make([]Comparison, len(scenarios))
		for i, s := range scenarios {
			out[i] = summary(s)
		}
		return out, nil
	}
	byName := make(map[string]Scenario, len(scenarios))
	for _, s := range scenarios {
		byName[s.Name] = s
	}
	out := make([]Comparison, 0, len(names))
	for _, n := range names {
		s, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, n)
		}
		out = append(out, summary(s))
	}
	return out, nil
}

func summary(s Scenario) Comparison {
	return Comparison{Scenario: s.Name, TotalCost: s.TotalCost, PriorityValue: s.ObjectiveValue}
}
