package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sovouthea1111/hr-system-api/internal/email"
	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
	"github.com/sovouthea1111/hr-system-api/pkg/messaging"
	"github.com/sovouthea1111/hr-system-api/pkg/metrics"
)

const inAppChannel = "notifications"

type DispatcherConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Dispatcher drains the notification delivery queue. Pending rows are
// claimed with a row lock so concurrent workers never double-send, then
// fanned out per channel: email through SMTP, in-app through the broker.
type Dispatcher struct {
	deliveries repository.DeliveryRepository
	emails     email.Service
	broker     messaging.Broker
	config     DispatcherConfig
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewDispatcher(
	deliveries repository.DeliveryRepository,
	emails email.Service,
	broker messaging.Broker,
	config DispatcherConfig,
	l *logger.Logger,
	m *metrics.Metrics,
) *Dispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}

	return &Dispatcher{
		deliveries: deliveries,
		emails:     emails,
		broker:     broker,
		config:     config,
		logger:     l,
		metrics:    m,
	}
}

// Start runs the dispatch loop until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("delivery dispatcher started",
		"batch_size", d.config.BatchSize,
		"poll_interval", d.config.PollInterval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("delivery dispatcher shutting down")
			return
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil {
				d.logger.Error(err, "failed to process delivery batch")
			}
		}
	}
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.DispatchLatency)
	defer timer.ObserveDuration()

	pending, err := d.deliveries.GetPendingWithLock(ctx, d.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending deliveries: %w", err)
	}
	d.metrics.DeliveryQueueSize.Set(float64(len(pending)))

	for _, delivery := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.dispatch(ctx, delivery)
	}

	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, delivery *model.NotificationDelivery) {
	err := d.send(ctx, delivery)
	if err == nil {
		if err := d.deliveries.MarkSent(ctx, delivery.ID); err != nil {
			d.logger.Error(err, "failed to mark delivery sent", "delivery_id", delivery.ID.String())
			return
		}
		d.metrics.DeliveriesSent.Inc()
		return
	}

	d.logger.Error(err, "delivery attempt failed",
		"delivery_id", delivery.ID.String(),
		"channel", delivery.Channel,
		"retry_count", delivery.RetryCount,
	)

	errMsg := err.Error()
	if delivery.RetryCount+1 >= d.config.RetryAttempts {
		d.metrics.DeliveriesFailed.Inc()
		if err := d.deliveries.UpdateStatus(ctx, delivery.ID, model.DeliveryStatusFailed, &errMsg, nil); err != nil {
			d.logger.Error(err, "failed to mark delivery failed", "delivery_id", delivery.ID.String())
		}
		return
	}

	d.metrics.DeliveryRetries.WithLabelValues(delivery.Channel).Inc()
	backoff := d.config.RetryDelay * time.Duration(delivery.RetryCount+1)
	retryAt := time.Now().Add(backoff)
	if err := d.deliveries.UpdateStatus(ctx, delivery.ID, model.DeliveryStatusRetrying, &errMsg, &retryAt); err != nil {
		d.logger.Error(err, "failed to schedule delivery retry", "delivery_id", delivery.ID.String())
	}
}

func (d *Dispatcher) send(ctx context.Context, delivery *model.NotificationDelivery) error {
	switch delivery.Channel {
	case model.DeliveryChannelEmail:
		return d.emails.SendCustom(ctx, delivery.Recipient, delivery.Subject, delivery.Content)
	case model.DeliveryChannelInApp:
		return d.broker.Publish(ctx, inAppChannel, messaging.Message{
			Type:    "notification_delivery",
			Payload: delivery,
		})
	default:
		return fmt.Errorf("unknown delivery channel %q", delivery.Channel)
	}
}
