package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "swiftride", Name: "requests_created_total",
		Help: "Total ride requests created",
	})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swiftride", Name: "request_transitions_total",
		Help: "Ride request state transitions by target status and flow",
	}, []string{"status", "flow"})

	AssignmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "swiftride", Name: "assignment_conflicts_total",
		Help: "Assignment attempts that lost the compare-and-swap race",
	})

	DriversOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "swiftride", Name: "drivers_online",
		Help: "Drivers currently online",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swiftride", Name: "http_requests_total",
		Help: "Total HTTP requests handled",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "swiftride", Name: "http_request_duration_seconds",
		Help:    "HTTP request latency distribution",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
