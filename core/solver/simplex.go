package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/workplan/core/logger"
	"github.com/kilianp07/workplan/core/model"
)

// simplexTolerance is the pivot tolerance passed to lp.Simplex.
const simplexTolerance = 1e-10

// simplexRelaxer solves the node relaxation as a general LP. Every variable
// is shifted by its lower bound, y = x - lo, and the LP is posed in standard
// form with one slack for the budget row and one per box row:
//
//	minimize  -pᵀy
//	s.t.      cᵀy + s₀       = budget - cᵀlo
//	          y   + s        = hi - lo
//	          y, s₀, s      >= 0
//
// The all-slack basis is feasible, so no phase-one search is needed. The
// closed form is used when the simplex fails numerically.
type simplexRelaxer struct {
	m        model.AllocationModel
	tol      float64
	slack    float64
	fallback *greedyRelaxer
	log      logger.Logger
}

func newSimplexRelaxer(m model.AllocationModel, cfg Config, log logger.Logger) *simplexRelaxer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &simplexRelaxer{
		m: m,
		// simplex output is only accurate to roughly its pivot tolerance
		tol:      math.Max(cfg.Tolerance, 1e-6),
		slack:    cfg.Tolerance * math.Max(1, math.Abs(m.Budget)),
		fallback: newGreedyRelaxer(m, cfg),
		log:      log,
	}
}

// lpSolve points to the function used to solve the LP. It can be overridden in
// tests to simulate solver failures.
var lpSolve = solveLP

// solveLP maximises prio·y subject to cost·y <= budget and 0 <= y <= room.
// budget and room must be non-negative.
func solveLP(prio, cost, room []float64, budget float64) ([]float64, error) {
	n := len(prio)
	c := make([]float64, 2*n+1)
	for i, p := range prio {
		c[i] = -p
	}

	a := mat.NewDense(n+1, 2*n+1, nil)
	b := make([]float64, n+1)
	b[0] = budget
	a.Set(0, n, 1)
	for i := range cost {
		a.Set(0, i, cost[i])
		a.Set(1+i, i, 1)
		a.Set(1+i, n+1+i, 1)
		b[1+i] = room[i]
	}
	basic := make([]int, n+1)
	for i := range basic {
		basic[i] = n + i
	}

	_, sol, err := lp.Simplex(c, a, b, simplexTolerance, basic)
	if err != nil {
		return nil, err
	}
	return sol[:n], nil
}

func (s *simplexRelaxer) relax(lo, hi []int) relaxation {
	items := s.m.Items
	n := len(items)
	prio := make([]float64, n)
	cost := make([]float64, n)
	room := make([]float64, n)
	var spent float64
	for i, it := range items {
		prio[i] = it.Priority
		cost[i] = it.UnitCost
		room[i] = float64(hi[i] - lo[i])
		spent += it.UnitCost * float64(lo[i])
	}
	remaining := s.m.Budget - spent
	if remaining < -s.slack {
		return relaxation{frac: -1}
	}

	y, err := lpSolve(prio, cost, room, math.Max(0, remaining))
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return relaxation{frac: -1}
		}
		s.log.Warnf("simplex relaxation failed, using closed form: %v", err)
		return s.fallback.relax(lo, hi)
	}

	x := make([]float64, n)
	snapped := make([]float64, n)
	for i := range x {
		v := float64(lo[i]) + y[i]
		x[i] = math.Min(math.Max(v, float64(lo[i])), float64(hi[i]))
		snapped[i] = x[i]
		if r := math.Round(x[i]); math.Abs(x[i]-r) <= s.tol {
			snapped[i] = r
		}
	}
	// Snapping may push the point over budget; keep the raw values then so
	// the offending variable is branched on instead.
	var snappedCost float64
	for i, it := range items {
		snappedCost += it.UnitCost * snapped[i]
	}
	if snappedCost <= s.m.Budget+s.slack {
		return relaxation{feasible: true, x: snapped, bound: dot(items, snapped), frac: firstFractional(snapped, s.tol)}
	}
	return relaxation{feasible: true, x: x, bound: dot(items, x), frac: firstFractional(x, 0)}
}
