// Package metrics provides Prometheus metrics for the pathfinder routing core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Optimizer pass outcomes recorded on OptimizerPassesTotal.
const (
	PassOptimized = "optimized"
	PassReversed  = "reversed"
	PassAborted   = "aborted"
)

// Metrics holds all Prometheus metrics for the routing core.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// Optimizer metrics
	OptimizerPassesTotal *prometheus.CounterVec

	// Timetable metrics
	TimetableUpdatesTotal        prometheus.Counter
	TimetableOvertakingTotal     prometheus.Counter
	TimetableUpdateWaitSecsTotal prometheus.Counter
}

// New creates and registers all routing metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	optimizerPassesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathfinder_optimizer_passes_total",
			Help: "Total number of reverse/optimize passes by outcome",
		},
		[]string{"result"},
	)

	timetableUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pathfinder_timetable_updates_total",
		Help: "Total number of timetable updates applied",
	})

	timetableOvertakingTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pathfinder_timetable_overtaking_rejections_total",
		Help: "Total number of timetable updates rejected because the new trip overtakes an existing one",
	})

	timetableUpdateWaitSecsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pathfinder_timetable_update_wait_seconds_total",
		Help: "Total time spent waiting on the timetable update rate limiter",
	})

	registry.MustRegister(
		optimizerPassesTotal,
		timetableUpdatesTotal,
		timetableOvertakingTotal,
		timetableUpdateWaitSecsTotal,
	)

	return &Metrics{
		Registry:                     registry,
		OptimizerPassesTotal:         optimizerPassesTotal,
		TimetableUpdatesTotal:        timetableUpdatesTotal,
		TimetableOvertakingTotal:     timetableOvertakingTotal,
		TimetableUpdateWaitSecsTotal: timetableUpdateWaitSecsTotal,
	}
}
