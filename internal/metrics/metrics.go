// Package metrics exposes order counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe on a nil receiver so services can run without them.
type Metrics struct {
	registry        *prometheus.Registry
	ordersCreated   *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	ordersDeleted   prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "icontrol",
			Name:      "orders_created_total",
			Help:      "Orders created, by order type.",
		}, []string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "icontrol",
			Name:      "order_transitions_total",
			Help:      "Status transition requests, by order type and result.",
		}, []string{"type", "result"}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "icontrol",
			Name:      "orders_deleted_total",
			Help:      "Orders deleted.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "icontrol",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.ordersCreated,
		m.transitions,
		m.ordersDeleted,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OrderCreated(orderType string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(orderType).Inc()
}

// Transition records a transition request; result is "applied" or "rejected".
func (m *Metrics) Transition(orderType, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(orderType, result).Inc()
}

func (m *Metrics) OrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
