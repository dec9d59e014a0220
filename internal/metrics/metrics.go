package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	PlanMutations       *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	QuotesSubmitted     *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// NewMetrics creates metrics registered with the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith creates metrics registered with reg.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PlanMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_mutations_total",
			Help:      "The total number of plan and settings mutations",
		}, []string{"operation"}),
		PersistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "The total number of plan documents that could not be saved or read",
		}, []string{"message"}),
		QuotesSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_submitted_total",
			Help:      "The total number of quote requests by outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Mutation counts one plan mutation. Safe on a nil receiver.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.PlanMutations.WithLabelValues(op).Inc()
}

// Quote counts one quote submission outcome. Safe on a nil receiver.
func (m *Metrics) Quote(outcome string) {
	if m == nil {
		return
	}
	m.QuotesSubmitted.WithLabelValues(outcome).Inc()
}
