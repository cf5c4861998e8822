// Package export renders plans as CSV, JSON and HTML charts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/workplan/core/model"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAllocationCSV writes one row per work type with its units and cost.
func WriteAllocationCSV(w io.Writer, items []model.WorkItem, res model.OptimizationResult) error {
	if res.Allocation != nil && len(res.Allocation) != len(items) {
		return fmt.Errorf("%d allocations for %d work types", len(res.Allocation), len(items))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"work_type", "units", "cost"}); err != nil {
		return err
	}
	for i, it := range items {
		units := 0
		if res.Allocation != nil {
			units = res.Allocation[i]
		}
		rec := []string{
			it.Name,
			strconv.Itoa(units),
			formatFloat(float64(units) * it.UnitCost),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSensitivityCSV writes one row per sampled budget.
func WriteSensitivityCSV(w io.Writer, points []model.SensitivityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"budget", "objective_value", "budget_utilization", "total_cost", "status"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			formatFloat(p.Budget),
			formatFloat(p.ObjectiveValue),
			formatFloat(p.BudgetUtilization),
			formatFloat(p.TotalCost),
			p.Status.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
