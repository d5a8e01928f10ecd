// Package metrics exposes capsule service counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophcapsule"

type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	created  prometheus.Counter
	claimed  prometheus.Counter
	fees     prometheus.Counter
	rent     prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Passing a fresh registry keeps tests
// isolated from the global default one.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capsules_created_total",
			Help:      "Capsules created.",
		}),
		claimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capsules_claimed_total",
			Help:      "Successful claim calls, including repeated claims.",
		}),
		fees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_collected_total",
			Help:      "Sum of creation fees transferred to the treasury.",
		}),
		rent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_deposited_total",
			Help:      "Sum of storage rent deposited with capsules.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.requests, m.latency, m.created, m.claimed, m.fees, m.rent)
	return m
}

func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) CapsuleCreated(fee, rent uint64) {
	m.created.Inc()
	m.fees.Add(float64(fee))
	m.rent.Add(float64(rent))
}

func (m *Metrics) CapsuleClaimed() {
	m.claimed.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
