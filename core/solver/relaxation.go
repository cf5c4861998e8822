package solver

import (
	"math"
	"sort"

	"github.com/kilianp07/workplan/core/model"
)

// relaxation is the continuous optimum of a node.
type relaxation struct {
	feasible bool
	x        []float64
	bound    float64 // objective of x, an upper bound for integral points below
	frac     int     // first fractional variable, -1 when x is integral
}

// relaxer solves the LP relaxation of m restricted to [lo, hi].
type relaxer interface {
	relax(lo, hi []int) relaxation
}

// ratioOrder returns the indices of items that compete for budget (positive
// cost and priority) sorted by priority per unit cost, best first. The sort is
// stable so equal ratios keep input order unless tieBreak asks for cost.
func ratioOrder(items []model.WorkItem, tieBreak string) []int {
	order := make([]int, 0, len(items))
	for i, it := range items {
		if it.UnitCost > 0 && it.Priority > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		// p_a/c_a > p_b/c_b without dividing
		lhs, rhs := ia.Priority*ib.UnitCost, ib.Priority*ia.UnitCost
		if lhs != rhs {
			return lhs > rhs
		}
		if tieBreak == TieBreakCost {
			return ia.UnitCost < ib.UnitCost
		}
		return false
	})
	return order
}

// greedyRelaxer is the closed form of the single-constraint box LP: fund items
// to their maximum in ratio order and split the first one that does not fit.
type greedyRelaxer struct {
	m     model.AllocationModel
	order []int
	tol   float64
	slack float64
}

func newGreedyRelaxer(m model.AllocationModel, cfg Config) *greedyRelaxer {
	return &greedyRelaxer{
		m:     m,
		order: ratioOrder(m.Items, cfg.TieBreak),
		tol:   cfg.Tolerance,
		slack: cfg.Tolerance * math.Max(1, math.Abs(m.Budget)),
	}
}

func (g *greedyRelaxer) relax(lo, hi []int) relaxation {
	items := g.m.Items
	x := make([]float64, len(items))
	var spent float64
	for i, it := range items {
		x[i] = float64(lo[i])
		spent += it.UnitCost * x[i]
	}
	remaining := g.m.Budget - spent
	if remaining < -g.slack {
		return relaxation{frac: -1}
	}
	for i, it := range items {
		if it.UnitCost == 0 && it.Priority > 0 {
			x[i] = float64(hi[i])
		}
	}

	frac := -1
	for _, i := range g.order {
		if remaining <= 0 {
			break
		}
		room := float64(hi[i] - lo[i])
		if room == 0 {
			continue
		}
		c := items[i].UnitCost
		if need := room * c; need <= remaining+g.slack {
			x[i] = float64(hi[i])
			remaining = math.Max(0, remaining-need)
			continue
		}
		x[i] = float64(lo[i]) + remaining/c
		remaining = 0
		if r := math.Round(x[i]); math.Abs(x[i]-r) <= g.tol {
			x[i] = r
		} else {
			frac = i
		}
	}
	return relaxation{feasible: true, x: x, bound: dot(items, x), frac: frac}
}

func dot(items []model.WorkItem, x []float64) float64 {
	var sum float64
	for i, it := range items {
		sum += it.Priority * x[i]
	}
	return sum
}

// firstFractional returns the lowest index whose value is not integral within tol.
func firstFractional(x []float64, tol float64) int {
	for i, v := range x {
		if math.Abs(v-math.Round(v)) > tol {
			return i
		}
	}
	return -1
}

// rounded converts an integral relaxation point to an allocation.
func rounded(x []float64) []int {
	alloc := make([]int, len(x))
	for i, v := range x {
		alloc[i] = int(math.Round(v))
	}
	return alloc
}

// floored converts any relaxation point to an allocation that never costs more.
func floored(x []float64, tol float64) []int {
	alloc := make([]int, len(x))
	for i, v := range x {
		alloc[i] = int(math.Floor(v + tol))
	}
	return alloc
}
