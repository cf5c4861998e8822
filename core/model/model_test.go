package model

import (
	"encoding/json"
	"testing"
)

func TestAllocationModelSums(t *testing.T) {
	m := AllocationModel{
		Items: []WorkItem{
			{Name: "A", UnitCost: 100, Priority: 5, MinUnits: 1, MaxUnits: 10},
			{Name: "B", UnitCost: 200, Priority: 9, MinUnits: 0, MaxUnits: 5},
		},
		Budget: 1000,
	}
	alloc := []int{4, 3}
	if got := m.TotalCost(alloc); got != 1000 {
		t.Fatalf("total cost: got %v", got)
	}
	if got := m.Objective(alloc); got != 47 {
		t.Fatalf("objective: got %v", got)
	}
	if got := m.MinCost(); got != 100 {
		t.Fatalf("min cost: got %v", got)
	}
	if got := m.MaxCost(); got != 2000 {
		t.Fatalf("max cost: got %v", got)
	}
}

func TestUtilization(t *testing.T) {
	if u := Utilization(500, 1000); u != 0.5 {
		t.Fatalf("expected 0.5 got %v", u)
	}
	if u := Utilization(10, 0); u != 0 {
		t.Fatalf("expected 0 for empty budget got %v", u)
	}
}

func TestStatusJSON(t *testing.T) {
	res := OptimizationResult{Status: StatusTimeLimit, Allocation: []int{1, 2}, ObjectiveValue: 3}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":"TimeLimit","allocation":[1,2],"objective_value":3}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
	var back OptimizationResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Status != StatusTimeLimit || len(back.Allocation) != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if err := json.Unmarshal([]byte(`{"status":"Solved"}`), &back); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestStatusHasAllocation(t *testing.T) {
	cases := map[Status]bool{
		StatusOptimal:    true,
		StatusTimeLimit:  true,
		StatusInfeasible: false,
		StatusUnbounded:  false,
		StatusUnknown:    false,
	}
	for st, want := range cases {
		if st.HasAllocation() != want {
			t.Errorf("%s: expected %v", st, want)
		}
	}
}
