package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "editais_console"

	PreviewSubsystem = "preview"
	ActionSubsystem  = "action"
	CacheSubsystem   = "cache"
)

const (
	PreviewApplied = "applied"
	PreviewStale   = "stale"
	PreviewFailed  = "failed"
	PreviewInvalid = "invalid"
)

// Chamadas ao backend.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of requests sent to the notices backend",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)
)

var (
	PreviewResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: PreviewSubsystem,
			Name:      "results_total",
			Help:      "Preview responses by outcome (applied, stale, failed, invalid)",
		},
		[]string{"outcome"},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ActionSubsystem,
			Name:      "executions_total",
			Help:      "Total number of user actions by result",
		},
		[]string{"action", "status"},
	)

	ConfirmationsDeclined = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: ActionSubsystem,
			Name:      "confirmations_declined_total",
			Help:      "Destructive actions cancelled at the confirmation prompt",
		},
		[]string{"action"},
	)

	NoticesDisplayed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "notices_displayed",
			Help:      "Number of notices in the current displayed list",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: CacheSubsystem,
			Name:      "lookups_total",
			Help:      "Snapshot cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)

func RecordHTTPRequest(service, method, endpoint string, statusCode int, duration time.Duration) {
	status := "success"
	if statusCode >= 400 || statusCode == 0 {
		status = "error"
	}

	HTTPRequestsTotal.WithLabelValues(service, method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, endpoint).Observe(duration.Seconds())
}

func RecordPreviewResult(outcome string) {
	PreviewResultsTotal.WithLabelValues(outcome).Inc()
}

func RecordAction(action string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ActionsTotal.WithLabelValues(action, status).Inc()
}

func RecordConfirmationDeclined(action string) {
	ConfirmationsDeclined.WithLabelValues(action).Inc()
}

func SetNoticesDisplayed(count int) {
	NoticesDisplayed.Set(float64(count))
}

func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}
