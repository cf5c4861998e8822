package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/workplan/core/metrics"
)

// PromSink records plan events in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	objective   prometheus.Gauge
	utilization prometheus.Gauge
	sweepPoints prometheus.Histogram
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The metrics are exposed by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workplan_runs_total",
		Help: "Number of planning runs by kind and status",
	}, []string{"kind", "status"}))
	if err != nil {
		return nil, err
	}
	objective, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workplan_plan_objective",
		Help: "Total priority value of the most recent plan",
	}))
	if err != nil {
		return nil, err
	}
	utilization, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workplan_plan_budget_utilization_ratio",
		Help: "Share of the budget spent by the most recent plan",
	}))
	if err != nil {
		return nil, err
	}
	sweepPoints, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "workplan_sweep_points",
		Help:    "Number of sampled budgets per sensitivity sweep",
		Buckets: []float64{2, 5, 10, 20, 50, 100},
	}))
	if err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, objective: objective, utilization: utilization, sweepPoints: sweepPoints}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the run and exposes the plan value for solves that
// produced an allocation.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.runs.WithLabelValues("optimize", ev.Status.String()).Inc()
	if ev.Status.HasAllocation() {
		s.objective.Set(ev.Objective)
		s.utilization.Set(ev.Utilization)
	}
	return nil
}

// RecordSweep counts the sweep and its number of samples.
func (s *PromSink) RecordSweep(ev coremetrics.SweepEvent) error {
	s.runs.WithLabelValues("sensitivity", "done").Inc()
	s.sweepPoints.Observe(float64(len(ev.Points)))
	return nil
}
