// Package metrics defines the events emitted after every plan computation and
// the sink interfaces that record them. Concrete sinks (Prometheus, InfluxDB,
// MQTT) live in infra/metrics and register themselves with the factory so
// configuration can select them by name. Multiple configured sinks are wrapped
// in a MultiSink.
package metrics

import (
	"fmt"
	"time"

	"github.com/kilianp07/workplan/core/factory"
	"github.com/kilianp07/workplan/core/model"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// SolveEvent describes one optimization run.
type SolveEvent struct {
	RunID       string
	Status      model.Status
	Budget      float64
	WorkTypes   int
	Objective   float64
	TotalCost   float64
	Utilization float64
	Nodes       int
	Duration    time.Duration
	Time        time.Time
}

// SweepEvent describes one sensitivity sweep.
type SweepEvent struct {
	RunID     string
	Reference float64
	Points    []model.SensitivityPoint
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records optimization runs.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// SweepRecorder is implemented by sinks able to record sensitivity sweeps.
type SweepRecorder interface {
	RecordSweep(ev SweepEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error { return nil }
func (NopSink) RecordSweep(SweepEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSweep forwards the event to the sinks that support sweeps.
func (m *MultiSink) RecordSweep(ev SweepEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SweepRecorder); ok {
			if err := rec.RecordSweep(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("sink %d (%s): %w", i, c.Type, err)
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
