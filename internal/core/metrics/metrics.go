// Package metrics 汇总进程内的 prometheus 指标，统一在 init 注册
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pantry"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"route", "method"})

	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Requests holding a concurrency slot",
	})

	Rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rejected_total",
		Help:      "Requests shed by rate, concurrency, size or deadline limits",
	}, []string{"reason"})

	ProductsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Products successfully created",
	})

	AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Rejected logins and tokens",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, InFlight, Rejected, ProductsCreated, AuthFailures)
}
