package model

import "fmt"

// Status reports how a solve terminated.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
)

// String returns the status name used in documents and API payloads.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusTimeLimit:
		return "TimeLimit"
	default:
		return "Unknown"
	}
}

// HasAllocation is true when the result carries a usable allocation.
func (s Status) HasAllocation() bool {
	return s == StatusOptimal || s == StatusTimeLimit
}

// ParseStatus converts a status name back to a Status.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "Optimal":
		return StatusOptimal, nil
	case "Infeasible":
		return StatusInfeasible, nil
	case "Unbounded":
		return StatusUnbounded, nil
	case "TimeLimit":
		return StatusTimeLimit, nil
	case "Unknown", "":
		return StatusUnknown, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown status %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// OptimizationResult is the outcome of one solve. Allocation is aligned with
// the model's items and is nil when the model is infeasible.
type OptimizationResult struct {
	Status         Status  `json:"status" yaml:"status"`
	Allocation     []int   `json:"allocation" yaml:"allocation"`
	ObjectiveValue float64 `json:"objective_value" yaml:"objective_value"`
}

// SensitivityPoint is one sample of a budget sweep.
type SensitivityPoint struct {
	Budget            float64 `json:"budget" yaml:"budget"`
	ObjectiveValue    float64 `json:"objective_value" yaml:"objective_value"`
	BudgetUtilization float64 `json:"budget_utilization" yaml:"budget_utilization"`
	TotalCost         float64 `json:"total_cost" yaml:"total_cost"`
	Status            Status  `json:"status" yaml:"status"`
}
