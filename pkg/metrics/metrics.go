package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_events_processed_total",
		Help: "The total number of chain events processed by event name and outcome",
	}, []string{"chain_id", "event", "outcome"})

	StructuralErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_structural_errors_total",
		Help: "Total number of non-retryable event processing errors",
	}, []string{"chain_id", "event"})

	BridgePolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_bridge_polls_total",
		Help: "The total number of bridge status polls by outcome",
	}, []string{"outcome"})

	PollSchedulerSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coordinator_poll_scheduler_size",
		Help: "The number of intents with an outstanding bridge poll timer",
	})

	IntentsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_intents_completed_total",
		Help: "The total number of intents driven to COMPLETED by source chain",
	}, []string{"chain_id"})

	IntentsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_intents_failed_total",
		Help: "The total number of intents driven to FAILED by reason",
	}, []string{"chain_id", "reason"})

	WinningTicketsObserved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_winning_tickets_observed_total",
		Help: "The total number of winning ticket events observed for tracked syndicates",
	}, []string{"chain_id"})

	ResolutionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coordinator_resolutions_submitted_total",
		Help: "The total number of manual intent resolutions submitted on-chain by status",
	}, []string{"chain_id", "status"})
)
