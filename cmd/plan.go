package cmd

import (
	"fmt"
	"os"

	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/pkg/planfile"
)

// planInput is the work types and budget a command operates on.
type planInput struct {
	doc    planfile.Document
	items  []model.WorkItem
	budget float64
}

// loadPlan reads the plan document. budget overrides the document budget when
// override is set.
func loadPlan(path string, budget float64, override bool) (planInput, error) {
	if path == "" {
		return planInput{}, fmt.Errorf("--plan is required")
	}
	doc, err := planfile.Read(path)
	if err != nil {
		return planInput{}, fmt.Errorf("read plan: %w", err)
	}
	in := planInput{doc: doc, items: doc.WorkTypes, budget: budget}
	if !override {
		if doc.Budget == nil {
			return planInput{}, fmt.Errorf("plan %s has no budget; pass --budget", path)
		}
		in.budget = *doc.Budget
	}
	return in, nil
}

func writeHTML(path, html string) error {
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
