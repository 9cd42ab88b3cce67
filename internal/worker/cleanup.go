package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sovouthea1111/hr-system-api/internal/repository"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
)

// CleanupWorker prunes settled notification deliveries past their
// retention window so the queue table stays small.
type CleanupWorker struct {
	deliveries      repository.DeliveryRepository
	retentionDays   int
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewCleanupWorker(deliveries repository.DeliveryRepository, retentionDays int, cleanupInterval time.Duration, l *logger.Logger) *CleanupWorker {
	return &CleanupWorker{
		deliveries:      deliveries,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          l,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error(err, "failed to clean up deliveries")
			}
		}
	}
}

func (w *CleanupWorker) cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.deliveries.Cleanup(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up deliveries: %w", err)
	}

	if rows > 0 {
		w.logger.Info("cleaned up settled deliveries", "rows", rows, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
