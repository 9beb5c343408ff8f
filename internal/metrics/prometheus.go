package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder publishes the same subject/outcome/duration triple as
// ExpvarRecorder, but as a counter + histogram pair registered with a
// prometheus.Registerer. The teacher declares client_golang as a dependency
// but never wires it; it gets a concrete consumer here.
type PrometheusRecorder struct {
	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusRecorder builds a PrometheusRecorder and registers its
// collectors with reg. reg is typically prometheus.DefaultRegisterer, but
// tests should pass a fresh prometheus.NewRegistry() to avoid collisions
// across runs.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	rec := &PrometheusRecorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridcore",
			Name:      "engine_calls_total",
			Help:      "Count of gridcore Parameter/ObjectClass/RelationshipClass calls by subject and outcome.",
		}, []string{"subject", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridcore",
			Name:      "engine_call_duration_seconds",
			Help:      "Duration of gridcore Parameter/ObjectClass/RelationshipClass calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"subject"}),
	}
	reg.MustRegister(rec.outcomes, rec.durations)
	return rec
}

// Observe records one subject's outcome.
func (r *PrometheusRecorder) Observe(subject string, outcome Outcome, duration time.Duration) {
	if subject == "" {
		return
	}
	r.outcomes.WithLabelValues(subject, outcome.String()).Inc()
	r.durations.WithLabelValues(subject).Observe(duration.Seconds())
}
