package sensitivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/kilianp07/workplan/core/formulation"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/solver"
)

func sampleItems() []model.WorkItem {
	return []model.WorkItem{
		{Name: "A", UnitCost: 100, Priority: 5, MinUnits: 0, MaxUnits: 10},
		{Name: "B", UnitCost: 200, Priority: 9, MinUnits: 0, MaxUnits: 5},
	}
}

func TestBudgets_Endpoints(t *testing.T) {
	got := Budgets(1000, 5)
	want := []float64{500, 750, 1000, 1250, 1500}
	if len(got) != len(want) {
		t.Fatalf("len %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("budget[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSweep_ShapeAndOrder(t *testing.T) {
	sw := New(solver.New(solver.Config{}, nil), Config{Workers: 3}, nil)
	pts, err := sw.Sweep(context.Background(), sampleItems(), 1000, 5)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(pts) != 5 {
		t.Fatalf("len %d, want 5", len(pts))
	}
	want := []float64{500, 750, 1000, 1250, 1500}
	for i, p := range pts {
		if p.Budget != want[i] {
			t.Fatalf("point %d budget %v, want %v", i, p.Budget, want[i])
		}
		if p.Status != model.StatusOptimal {
			t.Fatalf("point %d status %v", i, p.Status)
		}
		if p.BudgetUtilization < 0 || p.BudgetUtilization > 1+1e-9 {
			t.Fatalf("point %d utilization %v out of range", i, p.BudgetUtilization)
		}
		if i > 0 && p.ObjectiveValue < pts[i-1].ObjectiveValue {
			t.Fatalf("objective decreased from %v to %v", pts[i-1].ObjectiveValue, p.ObjectiveValue)
		}
	}
	if pts[2].ObjectiveValue != 50 {
		t.Fatalf("objective at reference = %v, want 50", pts[2].ObjectiveValue)
	}
}

func TestSweep_InfeasibleSamplesAreZero(t *testing.T) {
	items := []model.WorkItem{{Name: "A", UnitCost: 10, Priority: 1, MinUnits: 6, MaxUnits: 10}}
	sw := New(solver.New(solver.Config{}, nil), Config{Workers: 2}, nil)
	pts, err := sw.Sweep(context.Background(), items, 100, 3)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	// budget 50 cannot cover the 60 minimum
	if pts[0].Status != model.StatusInfeasible || pts[0].ObjectiveValue != 0 || pts[0].BudgetUtilization != 0 {
		t.Fatalf("unexpected first point %+v", pts[0])
	}
	if pts[1].Status != model.StatusOptimal || pts[1].ObjectiveValue != 10 {
		t.Fatalf("unexpected reference point %+v", pts[1])
	}
}

func TestSweep_Validation(t *testing.T) {
	sw := New(solver.New(solver.Config{}, nil), Config{}, nil)
	if _, err := sw.Sweep(context.Background(), sampleItems(), 1000, 1); !errors.Is(err, formulation.ErrValidation) {
		t.Fatalf("steps=1: expected validation error, got %v", err)
	}
	if _, err := sw.Sweep(context.Background(), sampleItems(), -1, 5); !errors.Is(err, formulation.ErrValidation) {
		t.Fatalf("negative budget: expected validation error, got %v", err)
	}
	if _, err := sw.Sweep(context.Background(), nil, 1000, 5); !errors.Is(err, formulation.ErrValidation) {
		t.Fatalf("no items: expected validation error, got %v", err)
	}
}

type countingSolver struct {
	calls atomic.Int32
	inner Solver
}

func (c *countingSolver) Solve(m model.AllocationModel) model.OptimizationResult {
	c.calls.Add(1)
	return c.inner.Solve(m)
}

func TestSweep_SolvesEverySample(t *testing.T) {
	cs := &countingSolver{inner: solver.New(solver.Config{}, nil)}
	sw := New(cs, Config{Workers: 4}, nil)
	if _, err := sw.Sweep(context.Background(), sampleItems(), 1000, 11); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if got := cs.calls.Load(); got != 11 {
		t.Fatalf("solver called %d times, want 11", got)
	}
}

func TestSweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sw := New(solver.New(solver.Config{}, nil), Config{Workers: 1}, nil)
	if _, err := sw.Sweep(ctx, sampleItems(), 1000, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
