package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/pkg/export"
)

func newSensitivityCmd(open serviceOpener) *cobra.Command {
	var (
		planPath string
		budget   float64
		steps    int
		format   string
		chart    string
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep budgets from 50% to 150% of the reference budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadPlan(planPath, budget, cmd.Flags().Changed("budget"))
			if err != nil {
				return err
			}
			return withService(open, func(ctx context.Context, svc *app.Service) error {
				pts, err := svc.Planner.Sensitivity(ctx, in.items, in.budget, steps)
				if err != nil {
					return err
				}
				if format == "json" {
					err = export.WriteJSON(cmd.OutOrStdout(), pts)
				} else {
					err = export.WriteSensitivityCSV(cmd.OutOrStdout(), pts)
				}
				if err != nil {
					return err
				}
				if chart == "" {
					return nil
				}
				html, err := export.SensitivityChartHTML(pts)
				if err != nil {
					return err
				}
				return writeHTML(chart, html)
			})
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "plan document with work types (json or yaml)")
	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "reference budget, overrides the plan's budget")
	cmd.Flags().IntVarP(&steps, "steps", "n", 10, "number of sampled budgets, at least 2")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML sensitivity chart to this file")
	return cmd
}
