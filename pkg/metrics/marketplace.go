package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestCounter counts all HTTP requests served by the API
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records request latency in seconds
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// BargainTransitions counts bargain state-machine transitions by action
	BargainTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bargain_transitions_total",
			Help: "Total bargain status transitions",
		},
		[]string{"action"},
	)

	// ReviewsSubmitted counts accepted review submissions
	ReviewsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviews_submitted_total",
		Help: "Total reviews submitted",
	})
)

func Init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		BargainTransitions,
		ReviewsSubmitted,
	)
}
