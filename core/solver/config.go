package solver

import (
	"fmt"
	"time"
)

const (
	// TieBreakInput orders items with equal priority/cost ratios by input position.
	TieBreakInput = "input"
	// TieBreakCost favours the cheaper unit among equal ratios, then input position.
	TieBreakCost = "cost"

	// RelaxationGreedy solves the LP relaxation in closed form.
	RelaxationGreedy = "greedy"
	// RelaxationSimplex solves the LP relaxation with gonum's simplex.
	RelaxationSimplex = "simplex"
)

// Config controls the branch-and-bound search.
type Config struct {
	// MaxNodes caps the number of relaxations solved per call.
	MaxNodes int `json:"max_nodes"`
	// TimeLimitSeconds caps wall time per call.
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
	// Tolerance is the integrality and feasibility epsilon.
	Tolerance  float64 `json:"tolerance"`
	TieBreak   string  `json:"tie_break"`
	Relaxation string  `json:"relaxation"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxNodes <= 0 {
		c.MaxNodes = 100000
	}
	if c.TimeLimitSeconds <= 0 {
		c.TimeLimitSeconds = 10
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-9
	}
	if c.TieBreak == "" {
		c.TieBreak = TieBreakInput
	}
	if c.Relaxation == "" {
		c.Relaxation = RelaxationGreedy
	}
}

// Validate checks the settings once defaults are applied.
func (c Config) Validate() error {
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max_nodes must be positive")
	}
	if c.Tolerance <= 0 || c.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance %v out of range (0, 0.5)", c.Tolerance)
	}
	switch c.TieBreak {
	case TieBreakInput, TieBreakCost:
	default:
		return fmt.Errorf("unknown tie_break %s", c.TieBreak)
	}
	switch c.Relaxation {
	case RelaxationGreedy, RelaxationSimplex:
	default:
		return fmt.Errorf("unknown relaxation %s", c.Relaxation)
	}
	return nil
}

// TimeLimit returns the per-call wall time budget.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitSeconds * float64(time.Second))
}
