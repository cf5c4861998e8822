// Package history records every optimization and sensitivity run so past
// plans can be inspected.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/workplan/core/model"
)

// Kind identifies the operation that produced a record.
type Kind string

const (
	KindOptimize    Kind = "optimize"
	KindSensitivity Kind = "sensitivity"
)

// Record captures one run with its inputs and outputs.
type Record struct {
	ID        string                    `json:"id"`
	Timestamp time.Time                 `json:"timestamp"`
	Kind      Kind                      `json:"kind"`
	Budget    float64                   `json:"budget"`
	Steps     int                       `json:"steps,omitempty"`
	Items     []model.WorkItem          `json:"work_types"`
	Result    *model.OptimizationResult `json:"result,omitempty"`
	Points    []model.SensitivityPoint  `json:"points,omitempty"`
}

// NewOptimizeRecord builds a record for a single solve.
func NewOptimizeRecord(items []model.WorkItem, budget float64, res model.OptimizationResult) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      KindOptimize,
		Budget:    budget,
		Items:     items,
		Result:    &res,
	}
}

// NewSensitivityRecord builds a record for a sweep around budget.
func NewSensitivityRecord(items []model.WorkItem, budget float64, steps int, pts []model.SensitivityPoint) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Kind:      KindSensitivity,
		Budget:    budget,
		Steps:     steps,
		Items:     items,
		Points:    pts,
	}
}

// Query defines filters for retrieving records. Zero fields match everything.
// Status only matches optimize records.
type Query struct {
	Start  time.Time
	End    time.Time
	Kind   Kind
	Status model.Status
}

// Match reports whether r passes the filter.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Status != model.StatusUnknown && (r.Result == nil || r.Result.Status != q.Status) {
		return false
	}
	return true
}

// Store persists records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects and configures the history backend.
type Config struct {
	// Backend is "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "workplan-history.jsonl"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite", "none":
	default:
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	return nil
}

// NewStore opens the backend named by cfg.
func NewStore(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "none":
		return NopStore{}, nil
	default:
		return NewJSONLStore(cfg.Path)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
