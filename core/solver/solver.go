// Package solver maximises a priority-weighted allocation of integer work
// units under a single budget constraint and per-item bounds.
//
// The search is a depth-first branch-and-bound over the LP relaxation. Each
// node on the explicit stack carries its own bounds and the relaxation value
// of its parent, which is an upper bound for every integral point below it.
// Nodes whose inherited bound cannot beat the incumbent are pruned before
// their relaxation is solved. The node and wall-time caps are checked inside
// the loop; hitting either returns StatusTimeLimit with the best allocation
// found so far.
package solver

import (
	"math"
	"time"

	"github.com/kilianp07/workplan/core/logger"
	"github.com/kilianp07/workplan/core/model"
)

// Stats describes one search.
type Stats struct {
	Nodes    int
	Pruned   int
	MaxDepth int
	Elapsed  time.Duration
}

// Solver is stateless between calls and safe for concurrent use.
type Solver struct {
	cfg Config
	log logger.Logger
}

// New returns a Solver. Missing settings fall back to DefaultConfig values and
// a nil logger discards output.
func New(cfg Config, log logger.Logger) *Solver {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Solver{cfg: cfg, log: log}
}

// Config returns the effective configuration.
func (s *Solver) Config() Config { return s.cfg }

// node is one bound record of the search.
type node struct {
	lo, hi      []int
	parentBound float64
}

// Solve returns the optimal integer allocation of m.
func (s *Solver) Solve(m model.AllocationModel) model.OptimizationResult {
	res, _ := s.SolveWithStats(m)
	return res
}

// SolveWithStats is Solve plus search statistics.
func (s *Solver) SolveWithStats(m model.AllocationModel) (model.OptimizationResult, Stats) {
	start := time.Now()
	res, st := s.search(m, start)
	st.Elapsed = time.Since(start)
	observe(res.Status, st)
	s.log.Debugw("solve finished", map[string]any{
		"status":    res.Status.String(),
		"items":     len(m.Items),
		"budget":    m.Budget,
		"objective": res.ObjectiveValue,
		"nodes":     st.Nodes,
		"pruned":    st.Pruned,
		"elapsed":   st.Elapsed.String(),
	})
	return res, st
}

func (s *Solver) relaxer(m model.AllocationModel) relaxer {
	if s.cfg.Relaxation == RelaxationSimplex {
		return newSimplexRelaxer(m, s.cfg, s.log)
	}
	return newGreedyRelaxer(m, s.cfg)
}

func (s *Solver) search(m model.AllocationModel, start time.Time) (model.OptimizationResult, Stats) {
	var st Stats
	n := len(m.Items)
	if n == 0 {
		return model.OptimizationResult{Status: model.StatusInfeasible}, st
	}
	rx := s.relaxer(m)
	lo := make([]int, n)
	hi := make([]int, n)
	for i, it := range m.Items {
		lo[i], hi[i] = it.MinUnits, it.MaxUnits
	}

	root := rx.relax(lo, hi)
	st.Nodes = 1
	if !root.feasible {
		return model.OptimizationResult{Status: model.StatusInfeasible}, st
	}
	slack := s.cfg.Tolerance * math.Max(1, math.Abs(m.Budget))
	if root.frac < 0 {
		return optimal(m, rounded(root.x), model.StatusOptimal), st
	}

	var (
		best      []int
		bestObj   = math.Inf(-1)
		deadline  = start.Add(s.cfg.TimeLimit())
		timeLimit bool
	)
	beats := func(v float64) bool {
		if best == nil {
			return true
		}
		return v > bestObj+s.cfg.Tolerance*math.Max(1, math.Abs(bestObj))
	}

	stack := branch(nil, lo, hi, root)
	for len(stack) > 0 {
		if len(stack) > st.MaxDepth {
			st.MaxDepth = len(stack)
		}
		if st.Nodes >= s.cfg.MaxNodes || (st.Nodes&63 == 0 && time.Now().After(deadline)) {
			timeLimit = true
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !beats(nd.parentBound) {
			st.Pruned++
			continue
		}

		r := rx.relax(nd.lo, nd.hi)
		st.Nodes++
		if !r.feasible || !beats(r.bound) {
			st.Pruned++
			continue
		}
		if r.frac < 0 {
			alloc := rounded(r.x)
			if m.TotalCost(alloc) > m.Budget+slack {
				continue
			}
			if obj := m.Objective(alloc); beats(obj) {
				best, bestObj = alloc, obj
			}
			continue
		}
		stack = branch(stack, nd.lo, nd.hi, r)
	}

	if timeLimit {
		if best == nil {
			// the floor of a feasible relaxation never costs more than it
			best = floored(root.x, s.cfg.Tolerance)
		}
		s.log.Warnf("search stopped after %d nodes with %d open", st.Nodes, len(stack))
		return optimal(m, best, model.StatusTimeLimit), st
	}
	if best == nil {
		return model.OptimizationResult{Status: model.StatusInfeasible}, st
	}
	return optimal(m, best, model.StatusOptimal), st
}

// branch pushes the up child then the down child of r's fractional variable,
// so the down child is explored first.
func branch(stack []node, lo, hi []int, r relaxation) []node {
	i := r.frac
	v := r.x[i]

	upLo := append([]int(nil), lo...)
	upLo[i] = int(math.Ceil(v))
	stack = append(stack, node{lo: upLo, hi: hi, parentBound: r.bound})

	downHi := append([]int(nil), hi...)
	downHi[i] = int(math.Floor(v))
	return append(stack, node{lo: lo, hi: downHi, parentBound: r.bound})
}

func optimal(m model.AllocationModel, alloc []int, status model.Status) model.OptimizationResult {
	return model.OptimizationResult{Status: status, Allocation: alloc, ObjectiveValue: m.Objective(alloc)}
}
