package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/pkg/export"
	"github.com/kilianp07/workplan/pkg/planfile"
)

func newOptimizeCmd(open serviceOpener) *cobra.Command {
	var (
		planPath string
		budget   float64
		format   string
		save     string
		chart    string
		write    bool
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Compute the optimal allocation for a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadPlan(planPath, budget, cmd.Flags().Changed("budget"))
			if err != nil {
				return err
			}
			return withService(open, func(ctx context.Context, svc *app.Service) error {
				res, err := svc.Planner.Optimize(ctx, in.items, in.budget)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch format {
				case "json":
					err = export.WriteJSON(out, res)
				case "csv":
					err = export.WriteAllocationCSV(out, in.items, res)
				default:
					err = export.WriteAllocationTable(out, in.items, in.budget, res)
				}
				if err != nil {
					return err
				}
				if save != "" {
					if _, err := svc.Planner.SaveScenario(ctx, save, in.items, res); err != nil {
						return fmt.Errorf("save scenario: %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "saved scenario %q\n", save)
				}
				if chart != "" && res.Status.HasAllocation() {
					html, err := export.AllocationChartHTML(in.items, res)
					if err != nil {
						return err
					}
					if err := writeHTML(chart, html); err != nil {
						return err
					}
				}
				if write {
					in.doc.Results = &res
					if err := planfile.Write(planPath, in.doc); err != nil {
						return fmt.Errorf("write plan: %w", err)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "plan document with work types (json or yaml)")
	cmd.Flags().Float64VarP(&budget, "budget", "b", 0, "budget, overrides the plan's budget")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or csv")
	cmd.Flags().StringVar(&save, "save-scenario", "", "save the result as a named scenario")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML allocation chart to this file")
	cmd.Flags().BoolVar(&write, "write", false, "store the result in the plan document")
	return cmd
}
