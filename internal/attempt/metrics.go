package attempt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// failureReasonsRecorded tracks failure reasons recorded per origin and source kind
	failureReasonsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncrunner_failure_reasons_total",
			Help: "Total number of failure reasons recorded",
		},
		[]string{"origin", "from_trace"},
	)

	// summariesBuilt tracks attempt failure summaries built per outcome
	summariesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syncrunner_failure_summaries_total",
			Help: "Total number of attempt failure summaries built",
		},
		[]string{"outcome"},
	)

	// attemptsInFlight tracks attempts currently tracked by the runner
	attemptsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "syncrunner_attempts_in_flight",
			Help: "Number of attempts currently being tracked",
		},
	)
)
