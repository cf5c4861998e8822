package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/scenario"
)

// SensitivityChartHTML plots the objective against the budget with the
// budget utilization in percent on a secondary axis.
func SensitivityChartHTML(points []model.SensitivityPoint) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Budget Sensitivity Analysis"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Budget ($)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Priority Value"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Budget Utilization (%)", Position: "right"})

	x := make([]string, len(points))
	objective := make([]opts.LineData, len(points))
	utilization := make([]opts.LineData, len(points))
	for i, p := range points {
		x[i] = fmt.Sprintf("%.2f", p.Budget)
		objective[i] = opts.LineData{Value: p.ObjectiveValue}
		utilization[i] = opts.LineData{Value: math.Round(p.BudgetUtilization*1000) / 10}
	}
	line.SetXAxis(x).
		AddSeries("Priority Value", objective).
		AddSeries("Budget Utilization (%)", utilization, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	return render(line)
}

// AllocationChartHTML plots the units allocated to each work type.
func AllocationChartHTML(items []model.WorkItem, res model.OptimizationResult) (string, error) {
	if len(res.Allocation) != len(items) {
		return "", fmt.Errorf("%d allocations for %d work types", len(res.Allocation), len(items))
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Work Allocation", Subtitle: fmt.Sprintf("status %s, priority value %g", res.Status, res.ObjectiveValue)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Work Type"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Units Allocated"}),
	)
	names := make([]string, len(items))
	data := make([]opts.BarData, len(items))
	for i, it := range items {
		names[i] = it.Name
		data[i] = opts.BarData{Name: fmt.Sprintf("$%.2f", float64(res.Allocation[i])*it.UnitCost), Value: res.Allocation[i]}
	}
	bar.SetXAxis(names).AddSeries("Units Allocated", data)
	return render(bar)
}

// ComparisonChartHTML plots grouped bars of units per work type, one group
// member per scenario.
func ComparisonChartHTML(scenarios []scenario.Scenario) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Work Allocation Comparison by Scenario"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Work Type"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Units Allocated"}),
	)

	// union of work types in first-seen order
	var types []string
	seen := make(map[string]int)
	for _, sc := range scenarios {
		for _, r := range sc.Rows {
			if _, ok := seen[r.WorkType]; !ok {
				seen[r.WorkType] = len(types)
				types = append(types, r.WorkType)
			}
		}
	}
	bar.SetXAxis(types)
	for _, sc := range scenarios {
		data := make([]opts.BarData, len(types))
		for i := range data {
			data[i] = opts.BarData{Value: 0}
		}
		for _, r := range sc.Rows {
			data[seen[r.WorkType]] = opts.BarData{Name: fmt.Sprintf("$%.2f", r.Cost), Value: r.Units}
		}
		bar.AddSeries(sc.Name, data)
	}
	return render(bar)
}

type renderer interface {
	Render(w io.Writer) error
}

func render(c renderer) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}
