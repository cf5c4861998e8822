// Package sensitivity samples the optimal objective over a range of budgets
// around a reference budget.
package sensitivity

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/workplan/core/formulation"
	"github.com/kilianp07/workplan/core/logger"
	"github.com/kilianp07/workplan/core/model"
)

const (
	lowFactor  = 0.5
	highFactor = 1.5
)

// Solver solves a single formulated model.
type Solver interface {
	Solve(m model.AllocationModel) model.OptimizationResult
}

// Config controls the sweep.
type Config struct {
	// Workers bounds the number of concurrent solves. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Sweeper runs the solver once per sampled budget.
type Sweeper struct {
	solver Solver
	cfg    Config
	log    logger.Logger
}

// New returns a Sweeper using s for every sample.
func New(s Solver, cfg Config, log logger.Logger) *Sweeper {
	cfg.SetDefaults()
	return &Sweeper{solver: s, cfg: cfg, log: logger.OrNop(log)}
}

// Budgets returns steps budgets evenly spaced from 0.5·reference to
// 1.5·reference inclusive.
func Budgets(reference float64, steps int) []float64 {
	return floats.Span(make([]float64, steps), lowFactor*reference, highFactor*reference)
}

// Sweep solves the model at each sampled budget and returns one point per
// sample in ascending budget order. Samples are independent; an infeasible
// sample yields a zero objective and zero utilization.
func (s *Sweeper) Sweep(ctx context.Context, items []model.WorkItem, reference float64, steps int) ([]model.SensitivityPoint, error) {
	if err := formulation.ValidateSteps(steps); err != nil {
		return nil, err
	}
	if _, err := formulation.Formulate(items, reference); err != nil {
		return nil, err
	}

	budgets := Budgets(reference, steps)
	points := make([]model.SensitivityPoint, steps)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, b := range budgets {
		if gctx.Err() != nil {
			break
		}
		i, b := i, b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.sample(items, b)
			if err != nil {
				return err
			}
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debugw("sweep finished", map[string]any{
		"reference": reference,
		"steps":     steps,
		"workers":   s.cfg.Workers,
	})
	return points, nil
}

func (s *Sweeper) sample(items []model.WorkItem, budget float64) (model.SensitivityPoint, error) {
	m, err := formulation.Formulate(items, budget)
	if err != nil {
		return model.SensitivityPoint{}, err
	}
	res := s.solver.Solve(m)
	p := model.SensitivityPoint{Budget: budget, Status: res.Status}
	if !res.Status.HasAllocation() {
		return p, nil
	}
	p.ObjectiveValue = res.ObjectiveValue
	p.TotalCost = m.TotalCost(res.Allocation)
	p.BudgetUtilization = model.Utilization(p.TotalCost, budget)
	return p, nil
}
