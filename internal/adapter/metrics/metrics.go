package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IngestionMetrics holds all Prometheus metrics for the service. Consumers
// must tolerate a nil *IngestionMetrics so tests can pass nil.
type IngestionMetrics struct {
	RecordsTotal       *prometheus.CounterVec
	SyncsTotal         *prometheus.CounterVec
	WebhooksTotal      *prometheus.CounterVec
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
	FollowUpFailures   prometheus.Counter
}

// NewIngestionMetrics initializes and registers the Prometheus metrics.
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		RecordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Total number of reconciled records by kind and status.",
		}, []string{"kind", "status"}), // status: reconciled, skipped
		SyncsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "ingest",
			Name:      "syncs_total",
			Help:      "Total number of bulk sync operations by kind and status.",
		}, []string{"kind", "status"}), // status: ok, error
		WebhooksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "ingest",
			Name:      "webhooks_total",
			Help:      "Total number of webhook deliveries by topic and status.",
		}, []string{"topic", "status"}), // status: ok, not_found, error
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of metrics cache hits.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of metrics cache misses.",
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of tenant cache invalidations.",
		}),
		FollowUpFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "shopmetrics",
			Subsystem: "ingest",
			Name:      "followup_failures_total",
			Help:      "Total number of failed async customer refreshes after order webhooks.",
		}),
	}
}
