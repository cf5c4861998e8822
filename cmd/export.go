package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/workplan/app"
	"github.com/kilianp07/workplan/core/history"
	"github.com/kilianp07/workplan/pkg/planfile"
)

func newExportCmd(open serviceOpener) *cobra.Command {
	var planPath, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the plan with its latest result and all saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			if planPath == "" || outPath == "" {
				return fmt.Errorf("--plan and --out are required")
			}
			doc, err := planfile.Read(planPath)
			if err != nil {
				return fmt.Errorf("read plan: %w", err)
			}
			return withService(open, func(ctx context.Context, svc *app.Service) error {
				recs, err := svc.Planner.History(ctx, history.Query{Kind: history.KindOptimize})
				if err != nil {
					return err
				}
				if len(recs) > 0 {
					doc.Results = recs[len(recs)-1].Result
				}
				list, err := svc.Planner.Scenarios(ctx)
				if err != nil {
					return err
				}
				if len(list) > 0 {
					doc.Scenarios = make(map[string]planfile.ScenarioRecord, len(list))
					for _, s := range list {
						doc.Scenarios[s.Name] = planfile.FromScenario(s)
					}
				}
				if err := planfile.Write(outPath, doc); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d work types and %d scenarios to %s\n", len(doc.WorkTypes), len(doc.Scenarios), outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "plan document with work types (json or yaml)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "destination document (json or yaml)")
	return cmd
}
