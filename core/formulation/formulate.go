// Package formulation turns raw work items and a budget into a validated
// allocation model.
package formulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/workplan/core/model"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid allocation input")
	// ErrNonFinite reports a NaN or infinite cost, priority or budget.
	ErrNonFinite = errors.New("non-finite numeric input")
)

// ValidationError describes malformed input. Index is -1 for errors that are
// not tied to a single item.
type ValidationError struct {
	Index  int
	Item   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	if e.Item != "" {
		return fmt.Sprintf("item %d (%s) %s: %s", e.Index, e.Item, e.Field, e.Reason)
	}
	return fmt.Sprintf("item %d %s: %s", e.Index, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Formulate validates items and budget and returns the model to solve. Items
// are copied but keep their order so results align with the caller's input.
func Formulate(items []model.WorkItem, budget float64) (model.AllocationModel, error) {
	if err := checkFinite("budget", -1, "", budget); err != nil {
		return model.AllocationModel{}, err
	}
	if budget < 0 {
		return model.AllocationModel{}, &ValidationError{Index: -1, Field: "budget", Reason: "must be >= 0"}
	}
	if len(items) == 0 {
		return model.AllocationModel{}, &ValidationError{Index: -1, Field: "work_types", Reason: "at least one work type is required"}
	}
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if err := validateItem(i, it); err != nil {
			return model.AllocationModel{}, err
		}
		if j, dup := seen[it.Name]; dup {
			return model.AllocationModel{}, &ValidationError{Index: i, Item: it.Name, Field: "name", Reason: fmt.Sprintf("duplicates item %d", j)}
		}
		seen[it.Name] = i
	}
	cp := make([]model.WorkItem, len(items))
	copy(cp, items)
	return model.AllocationModel{Items: cp, Budget: budget}, nil
}

func validateItem(i int, it model.WorkItem) error {
	if it.Name == "" {
		return &ValidationError{Index: i, Field: "name", Reason: "must not be empty"}
	}
	if err := checkFinite("cost", i, it.Name, it.UnitCost); err != nil {
		return err
	}
	if err := checkFinite("priority", i, it.Name, it.Priority); err != nil {
		return err
	}
	if it.UnitCost < 0 {
		return &ValidationError{Index: i, Item: it.Name, Field: "cost", Reason: "must be >= 0"}
	}
	if it.MinUnits < 0 {
		return &ValidationError{Index: i, Item: it.Name, Field: "min_units", Reason: "must be >= 0"}
	}
	if it.MinUnits > it.MaxUnits {
		return &ValidationError{Index: i, Item: it.Name, Field: "min_units",
			Reason: fmt.Sprintf("%d exceeds max_units %d", it.MinUnits, it.MaxUnits)}
	}
	return nil
}

func checkFinite(field string, i int, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if i < 0 {
			return fmt.Errorf("%w: %s is %v", ErrNonFinite, field, v)
		}
		return fmt.Errorf("%w: item %d (%s) %s is %v", ErrNonFinite, i, name, field, v)
	}
	return nil
}

// ValidateSteps checks the sample count of a sensitivity sweep.
func ValidateSteps(steps int) error {
	if steps < 2 {
		return &ValidationError{Index: -1, Field: "steps", Reason: fmt.Sprintf("%d is below the minimum of 2", steps)}
	}
	return nil
}
