package model

// WorkItem is one allocatable category of work.
type WorkItem struct {
	Name     string  `json:"name" yaml:"name"`
	UnitCost float64 `json:"cost" yaml:"cost"`         // cost of one unit, >= 0
	Priority float64 `json:"priority" yaml:"priority"` // objective weight of one unit
	MinUnits int     `json:"min_units" yaml:"min_units"`
	MaxUnits int     `json:"max_units" yaml:"max_units"`
}

// AllocationModel is a formulated allocation problem. Allocations produced for
// it are aligned with Items by position.
type AllocationModel struct {
	Items  []WorkItem `json:"work_types" yaml:"work_types"`
	Budget float64    `json:"budget" yaml:"budget"`
}

// TotalCost returns the budget consumed by alloc.
func (m AllocationModel) TotalCost(alloc []int) float64 {
	var sum float64
	for i, u := range alloc {
		if i >= len(m.Items) {
			break
		}
		sum += m.Items[i].UnitCost * float64(u)
	}
	return sum
}

// Objective returns the priority-weighted value of alloc.
func (m AllocationModel) Objective(alloc []int) float64 {
	var sum float64
	for i, u := range alloc {
		if i >= len(m.Items) {
			break
		}
		sum += m.Items[i].Priority * float64(u)
	}
	return sum
}

// MinCost is the cost of funding every item at its minimum.
func (m AllocationModel) MinCost() float64 {
	var sum float64
	for _, it := range m.Items {
		sum += it.UnitCost * float64(it.MinUnits)
	}
	return sum
}

// MaxCost is the cost of funding every item at its maximum.
func (m AllocationModel) MaxCost() float64 {
	var sum float64
	for _, it := range m.Items {
		sum += it.UnitCost * float64(it.MaxUnits)
	}
	return sum
}

// Utilization is the fraction of budget spent. It is zero for a non-positive budget.
func Utilization(totalCost, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return totalCost / budget
}
