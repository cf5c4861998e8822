package solver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/workplan/core/model"
)

var (
	solveDuration *prometheus.HistogramVec
	solveTotal    *prometheus.CounterVec
	solveNodes    prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Histogram) {
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workplan_solve_duration_seconds",
			Help:    "Wall time of one branch-and-bound solve",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"status"},
	)
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workplan_solve_total",
			Help: "Number of solves by final status",
		},
		[]string{"status"},
	)
	nodes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workplan_solve_nodes",
			Help:    "Relaxations solved per branch-and-bound search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	return dur, total, nodes
}

func init() {
	solveDuration, solveTotal, solveNodes = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers solver metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(solveDuration, solveTotal, solveNodes)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	solveDuration, solveTotal, solveNodes = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func observe(status model.Status, st Stats) {
	solveDuration.WithLabelValues(status.String()).Observe(st.Elapsed.Seconds())
	solveTotal.WithLabelValues(status.String()).Inc()
	solveNodes.Observe(float64(st.Nodes))
}
