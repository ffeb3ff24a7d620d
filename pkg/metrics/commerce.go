package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records cart mutation counts and catalog query latency.
type CommerceMetrics struct {
	cartMutations *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// NewCommerceMetrics registers the storefront metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"operation"})
	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog query evaluations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"read"})
	reg.MustRegister(cartMutations, queryDuration)
	return &CommerceMetrics{
		cartMutations: cartMutations,
		queryDuration: queryDuration,
	}
}

// IncCartMutation increments the counter for the named cart operation.
func (m *CommerceMetrics) IncCartMutation(operation string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveQueryDuration records the duration of the named catalog read.
func (m *CommerceMetrics) ObserveQueryDuration(read string, duration time.Duration) {
	if m == nil || m.queryDuration == nil {
		return
	}
	m.queryDuration.WithLabelValues(normalizeLabel(read)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
