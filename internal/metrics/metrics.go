// Package metrics defines the client-side Prometheus metrics for the
// storefront API client. It is the single source of truth for metric names,
// labels, and help strings; collectors register themselves with the default
// registry at package load via promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// RequestsTotal counts outgoing API requests.
// Labels:
//   - method: HTTP method
//   - route: the endpoint path template (not the concrete URL)
//   - status: numeric HTTP status, or "error" when the transport failed
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of storefront API requests issued.",
	},
	[]string{"method", "route", "status"},
)

// RequestDuration measures a single request from send to body close.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of storefront API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// SessionRestoresTotal counts session-resumption attempts.
// Label:
//   - result: "restored", "no_session", "expired", or "rejected"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by result.",
	},
	[]string{"result"},
)

// ObserveRequest records one finished request. status <= 0 counts as a
// transport error.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(method, route, label).Inc()
	RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
