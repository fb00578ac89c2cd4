package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// decisions is a singleton for the decision counter vec.
	decisions *prometheus.CounterVec //nolint:gochecknoglobals
)

// newDecisionCounter returns a prometheus counter vec counting guard
// decisions by outcome.
func newDecisionCounter() *prometheus.CounterVec {
	if decisions == nil {
		decisions = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_guard_decisions_total",
				Help: "Number of guard decisions, differentiated by outcome.",
			},
			[]string{"decision"},
		)
	}

	return decisions
}
