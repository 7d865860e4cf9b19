package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payroll-domain collectors. Registered once on the default registry and fed
// by the payroll services.
var (
	RunTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payroll_console",
		Name:      "run_transitions_total",
		Help:      "Payroll run workflow transitions by action and outcome.",
	}, []string{"action", "outcome"})

	ExceptionsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payroll_console",
		Name:      "exceptions_classified_total",
		Help:      "Exception records derived from backend text, by type.",
	}, []string{"type"})

	ExceptionFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "payroll_console",
		Name:      "exception_fetch_failures_total",
		Help:      "Per-run exception fetches that failed during aggregation.",
	})

	ExceptionResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payroll_console",
		Name:      "exception_resolutions_total",
		Help:      "Exception resolution writes by outcome.",
	}, []string{"outcome"})
)
