package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamsaver",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dreamsaver",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "path"},
	)

	insightGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamsaver",
			Subsystem: "insight",
			Name:      "generations_total",
			Help:      "Insight generation requests by outcome.",
		},
		[]string{"outcome"},
	)

	insightFollowupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamsaver",
			Subsystem: "insight",
			Name:      "followup_failures_total",
			Help:      "Best-effort writes after an insight insert that failed.",
		},
		[]string{"step"},
	)

	aiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dreamsaver",
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the text generation provider.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		},
		[]string{"provider", "status"},
	)

	billingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dreamsaver",
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Payment webhook events by type and result.",
		},
		[]string{"type", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		insightGenerations,
		insightFollowupFailures,
		aiDuration,
		billingEvents,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Insight generation outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

func RecordInsightGeneration(outcome string) {
	insightGenerations.WithLabelValues(outcome).Inc()
}

func RecordInsightFollowupFailure(step string) {
	insightFollowupFailures.WithLabelValues(step).Inc()
}

func ObserveAIRequest(provider string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	aiDuration.WithLabelValues(provider, status).Observe(elapsed.Seconds())
}

func RecordBillingEvent(eventType, result string) {
	billingEvents.WithLabelValues(eventType, result).Inc()
}
