// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================================
// Prometheus Metrics
// ============================================================================

var (
	// runsTotal counts executions by terminal status (success, error,
	// max_iterations).
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "runtime",
			Name:      "runs_total",
			Help:      "Total number of agent executions by terminal status",
		},
		[]string{"status"},
	)

	// runDuration observes end-to-end execution wall time.
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agent",
			Subsystem: "runtime",
			Name:      "run_duration_seconds",
			Help:      "Agent execution duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"status"},
	)

	// runIterations observes how many loop iterations an execution used.
	runIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "agent",
			Subsystem: "runtime",
			Name:      "run_iterations",
			Help:      "Tool calling loop iterations per execution",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15, 20},
		},
	)

	// operationsExtracted counts entity operations produced per run.
	operationsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "runtime",
			Name:      "operations_extracted_total",
			Help:      "Total entity operations extracted from agent output",
		},
	)

	// toolExecutionsTotal counts tool invocations by tool and outcome.
	toolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "runtime",
			Name:      "tool_executions_total",
			Help:      "Total tool executions by tool name and outcome",
		},
		[]string{"tool", "status"},
	)
)

// recordRun records the terminal metrics for one execution.
func recordRun(status string, duration time.Duration, iterations, operations int) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(status).Observe(duration.Seconds())
	if iterations > 0 {
		runIterations.Observe(float64(iterations))
	}
	if operations > 0 {
		operationsExtracted.Add(float64(operations))
	}
}

// recordToolExecution records one tool invocation.
func recordToolExecution(tool string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	toolExecutionsTotal.WithLabelValues(tool, status).Inc()
}
