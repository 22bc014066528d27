package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcomes used as label values.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeDuplicate    = "duplicate"
	OutcomeUnauthorized = "unauthorized"
	OutcomeFailed       = "failed"
)

var (
	metricsEnabled = true // Flag to control metric collection

	webhookLabels = []string{"outcome"}

	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook deliveries, labeled by outcome.",
		},
		webhookLabels,
	)

	WebhookProcessingDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_seconds",
			Help:    "Histogram of webhook processing durations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		webhookLabels,
	)

	WebhookRecordsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_records_created_total",
			Help: "Total number of rows committed by webhook ingestion, labeled by entity.",
		},
		[]string{"entity"},
	)

	TranslationCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_lookups_total",
			Help: "Translation cache lookups, labeled by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)

// Labels for database operations
var (
	dbOperationLabels = []string{"operation", "entity", "status"}

	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// InitMetrics toggles metric collection. Metrics are registered by promauto at
// package init; disabling only stops recording.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IncWebhookRequest counts one delivery with its outcome.
func IncWebhookRequest(outcome string) {
	if !metricsEnabled {
		return
	}
	WebhookRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveWebhookDuration records how long a delivery took to process.
func ObserveWebhookDuration(outcome string, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	WebhookProcessingDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddRecordsCreated adds committed rows for entity. Zero counts are skipped.
func AddRecordsCreated(entity string, count int) {
	if !metricsEnabled || count <= 0 {
		return
	}
	WebhookRecordsCreatedTotal.WithLabelValues(entity).Add(float64(count))
}

// IncTranslationCacheLookup counts a cache lookup by result.
func IncTranslationCacheLookup(result string) {
	if !metricsEnabled {
		return
	}
	TranslationCacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}
