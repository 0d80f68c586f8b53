// Package metrics defines the Prometheus collectors for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion Metrics
var (
	// EventsIngested tracks raw events entering the pipeline by platform and kind
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_ingested_total",
			Help: "Raw events entering the pipeline by platform and event kind",
		},
		[]string{"platform", "kind"},
	)

	// PipelineOutcomes tracks terminal pipeline outcomes by platform and status
	PipelineOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_pipeline_outcomes_total",
			Help: "Pipeline outcomes by platform and status",
		},
		[]string{"platform", "status"},
	)

	// URLRedactions tracks messages that had at least one URL redacted
	URLRedactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_url_redactions_total",
			Help: "Messages with at least one URL redacted, by platform",
		},
		[]string{"platform"},
	)
)

// Cooldown Metrics
var (
	// CooldownEntries tracks the number of authors currently in the cooldown map
	CooldownEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_cooldown_entries",
			Help: "Authors currently tracked in the cooldown map",
		},
	)

	// CooldownEvictions tracks cooldown entries removed by the eviction sweep
	CooldownEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_cooldown_evictions_total",
			Help: "Cooldown entries removed by the periodic eviction sweep",
		},
	)
)

// Dispatch Metrics
var (
	// DispatchTotal tracks dispatch attempts by classified result
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_dispatch_total",
			Help: "Dispatch attempts by classified result",
		},
		[]string{"reason"},
	)

	// DispatchDuration tracks brain request latency in seconds
	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_dispatch_duration_seconds",
			Help:    "Brain dispatch request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
