package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Delivery dispatcher metrics
	DeliveriesSent    prometheus.Counter
	DeliveriesFailed  prometheus.Counter
	DispatchLatency   prometheus.Histogram
	DeliveryQueueSize prometheus.Gauge
	DeliveryRetries   *prometheus.CounterVec

	// Notification feed metrics
	NotificationsCreated *prometheus.CounterVec
	FeedFetches          *prometheus.CounterVec
	UnreadGauge          prometheus.Gauge
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		DeliveriesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries_sent_total",
			Help:      "Total number of successfully dispatched notification deliveries",
		}),
		DeliveriesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries_failed_total",
			Help:      "Total number of failed notification deliveries",
		}),
		DispatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching notification deliveries",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DeliveryQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_queue_size",
			Help:      "Current number of pending notification deliveries",
		}),
		DeliveryRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_retry_attempts_total",
			Help:      "Total number of retry attempts for notification deliveries",
		}, []string{"channel"}),

		NotificationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notifications_created_total",
			Help:      "Total number of notifications created",
		}, []string{"type"}),
		FeedFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_fetches_total",
			Help:      "Total number of notification feed fetches",
		}, []string{"filter", "status"}),
		UnreadGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_unread_notifications",
			Help:      "Unread notifications observed on the most recent feed fetch",
		}),
	}
}
