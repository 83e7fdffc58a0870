// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created by domain.",
		},
		[]string{"domain"},
	)

	reservationCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "reservation_cancelled_total",
			Help:      "Count of reservations cancelled by their owner.",
		},
		[]string{"domain"},
	)

	reservationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "reservation_rejected_total",
			Help:      "Count of rejected reservation writes by domain and reason.",
		},
		[]string{"domain", "reason"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationCancelled, reservationRejected, requestDuration)
	})
}

func IncCreated(domain string) {
	reservationCreated.WithLabelValues(domain).Inc()
}

func IncCancelled(domain string) {
	reservationCancelled.WithLabelValues(domain).Inc()
}

// IncRejected counts a create or cancel refused for reason (conflict,
// forbidden, not_found, invalid).
func IncRejected(domain, reason string) {
	reservationRejected.WithLabelValues(domain, reason).Inc()
}

func ObserveRequest(method, route, status string, seconds float64) {
	requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
