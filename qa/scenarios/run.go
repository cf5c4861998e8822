package scenarios

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/workplan/core/formulation"
	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/sensitivity"
	"github.com/kilianp07/workplan/core/solver"
	"github.com/kilianp07/workplan/infra/logger"
)

var relaxations = []string{solver.RelaxationGreedy, solver.RelaxationSimplex}

// RunCase solves c with every relaxation backend and checks the outcome.
func RunCase(t *testing.T, c *Case) {
	t.Helper()
	for _, r := range relaxations {
		t.Run(r, func(t *testing.T) {
			cfg := solver.DefaultConfig()
			cfg.Relaxation = r
			s := solver.New(cfg, logger.NopLogger{})
			if c.Steps > 0 {
				runSweep(t, s, c)
				return
			}
			runSolve(t, s, c)
		})
	}
}

func runSolve(t *testing.T, s *solver.Solver, c *Case) {
	m, err := formulation.Formulate(c.WorkTypes, c.Budget)
	require.NoError(t, err)

	res := s.Solve(m)
	assert.Equal(t, c.Expected.Status, res.Status)
	if c.Expected.Status == model.StatusInfeasible {
		assert.Nil(t, res.Allocation)
		return
	}
	assert.Equal(t, c.Expected.Allocation, res.Allocation)
	assert.InDelta(t, c.Expected.Objective, res.ObjectiveValue, 1e-9)
	assert.LessOrEqual(t, m.TotalCost(res.Allocation), c.Budget+1e-9)

	again := s.Solve(m)
	assert.Equal(t, res, again, "solves must be deterministic")
}

func runSweep(t *testing.T, s *solver.Solver, c *Case) {
	pts, err := sensitivity.New(s, sensitivity.Config{Workers: 2}, logger.NopLogger{}).
		Sweep(context.Background(), c.WorkTypes, c.Budget, c.Steps)
	require.NoError(t, err)
	require.Len(t, pts, c.Steps)
	for i, p := range pts {
		if i < len(c.Expected.Budgets) {
			assert.InDelta(t, c.Expected.Budgets[i], p.Budget, 1e-9)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, p.ObjectiveValue, pts[i-1].ObjectiveValue, "objective must not decrease with budget")
		}
	}
}
