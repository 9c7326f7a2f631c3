package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/veeraceo-pixel/cashback/internal/domain"
)

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashback_webhook_events_total",
			Help: "Webhook deliveries by network and outcome",
		},
		[]string{"network", "outcome"},
	)

	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cashback_ingest_duration_seconds",
			Help:    "Time spent reconciling one webhook delivery",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"network"},
	)

	SyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashback_sync_runs_total",
			Help: "Poll-and-sync runs by network and outcome",
		},
		[]string{"network", "outcome"},
	)

	SyncElementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashback_sync_elements_total",
			Help: "Polled transaction records by network and outcome",
		},
		[]string{"network", "outcome"},
	)

	OutboxPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashback_outbox_published_total",
			Help: "Outbox records by publish outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(SyncRunsTotal)
	prometheus.MustRegister(SyncElementsTotal)
	prometheus.MustRegister(OutboxPublishedTotal)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome labels a reconciliation error with a low-cardinality value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAuthentication):
		return "unauthenticated"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, domain.ErrUnknownClick):
		return "unknown_click"
	case errors.Is(err, domain.ErrUnknownStore):
		return "unknown_store"
	case errors.Is(err, domain.ErrUnsupportedNetwork):
		return "unsupported_network"
	case errors.Is(err, domain.ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

func ObserveIngest(network string, started time.Time, err error) {
	WebhookEventsTotal.WithLabelValues(network, Outcome(err)).Inc()
	IngestDuration.WithLabelValues(network).Observe(time.Since(started).Seconds())
}
