package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/pkg/export"
)

func newScenarioCmd(open serviceOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Saved scenario commands",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved scenarios",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(open, func(ctx context.Context, svc *app.Service) error {
					list, err := svc.Planner.Scenarios(ctx)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "Scenario\tTotal Cost\tPriority Value\tWork Types")
					for _, s := range list {
						fmt.Fprintf(tw, "%s\t%.2f\t%g\t%d\n", s.Name, s.TotalCost, s.ObjectiveValue, len(s.Rows))
					}
					return tw.Flush()
				})
			},
		},
		newScenarioCompareCmd(open),
		&cobra.Command{
			Use:   "delete NAME...",
			Short: "Delete saved scenarios",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withService(open, func(ctx context.Context, svc *app.Service) error {
					return svc.Planner.DeleteScenarios(ctx, args...)
				})
			},
		},
	)
	return cmd
}

func newScenarioCompareCmd(open serviceOpener) *cobra.Command {
	var (
		format string
		chart  string
	)
	cmd := &cobra.Command{
		Use:   "compare [NAME...]",
		Short: "Compare saved scenarios, all of them when no name is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(open, func(ctx context.Context, svc *app.Service) error {
				rows, scs, err := svc.Planner.CompareScenarios(ctx, args...)
				if err != nil {
					return err
				}
				if format == "json" {
					if err := export.WriteJSON(cmd.OutOrStdout(), rows); err != nil {
						return err
					}
				} else {
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "Scenario\tTotal Cost\tPriority Value")
					for _, r := range rows {
						fmt.Fprintf(tw, "%s\t%.2f\t%g\n", r.Scenario, r.TotalCost, r.PriorityValue)
					}
					if err := tw.Flush(); err != nil {
						return err
					}
				}
				if chart == "" {
					return nil
				}
				html, err := export.ComparisonChartHTML(scs)
				if err != nil {
					return err
				}
				return writeHTML(chart, html)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML comparison chart to this file")
	return cmd
}
