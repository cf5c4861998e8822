package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kilianp07/workplan/core/model"
)

// WriteAllocationTable prints the allocation as an aligned table followed by
// the total cost, the remaining budget and the priority value.
func WriteAllocationTable(w io.Writer, items []model.WorkItem, budget float64, res model.OptimizationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Status:\t%s\n", res.Status)
	if !res.Status.HasAllocation() || len(res.Allocation) != len(items) {
		return tw.Flush()
	}
	fmt.Fprintln(tw, "Work Type\tUnits Allocated\tCost")
	var total float64
	for i, it := range items {
		cost := float64(res.Allocation[i]) * it.UnitCost
		total += cost
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", it.Name, res.Allocation[i], cost)
	}
	fmt.Fprintf(tw, "Total Cost\t\t%.2f\n", total)
	fmt.Fprintf(tw, "Remaining Budget\t\t%.2f\n", budget-total)
	fmt.Fprintf(tw, "Priority Value\t\t%g\n", res.ObjectiveValue)
	return tw.Flush()
}
