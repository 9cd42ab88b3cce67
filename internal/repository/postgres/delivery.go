package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
)

type deliveryRepository struct {
	BaseRepository
}

func NewDeliveryRepository(base BaseRepository) repository.DeliveryRepository {
	return &deliveryRepository{base}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.NotificationDelivery) error {
	query := `
		INSERT INTO notification_deliveries (
			id, notification_id, user_id, channel, recipient,
			subject, content, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	delivery.ID = uuid.New()
	delivery.Status = model.DeliveryStatusPending
	delivery.CreatedAt = time.Now()
	delivery.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			delivery.ID,
			delivery.NotificationID,
			delivery.UserID,
			delivery.Channel,
			delivery.Recipient,
			delivery.Subject,
			delivery.Content,
			delivery.Status,
			delivery.RetryCount,
			delivery.CreatedAt,
			delivery.UpdatedAt,
		)
		return err
	})
}

// GetPendingWithLock claims a batch of due deliveries. SKIP LOCKED keeps
// concurrent workers from double-sending.
func (r *deliveryRepository) GetPendingWithLock(ctx context.Context, limit int) ([]*model.NotificationDelivery, error) {
	query := `
		SELECT * FROM notification_deliveries
		WHERE status IN ($1, $2)
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	var deliveries []*model.NotificationDelivery
	if err := r.db.SelectContext(ctx, &deliveries, query,
		model.DeliveryStatusPending, model.DeliveryStatusRetrying, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending deliveries: %w", err)
	}

	return deliveries, nil
}

func (r *deliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DeliveryStatus, lastError *string, nextRetryAt *time.Time) error {
	query := `
		UPDATE notification_deliveries SET
			status = $1,
			last_error = $2,
			next_retry_at = $3,
			retry_count = retry_count + 1,
			updated_at = NOW()
		WHERE id = $4
	`

	if _, err := r.db.ExecContext(ctx, query, status, lastError, nextRetryAt, id); err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	return nil
}

func (r *deliveryRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notification_deliveries SET
			status = $1,
			sent_at = NOW(),
			updated_at = NOW()
		WHERE id = $2
	`

	if _, err := r.db.ExecContext(ctx, query, model.DeliveryStatusSent, id); err != nil {
		return fmt.Errorf("failed to mark delivery sent: %w", err)
	}

	return nil
}

// Cleanup removes settled deliveries older than the cutoff. Pending and
// retrying rows are never touched.
func (r *deliveryRepository) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM notification_deliveries
		WHERE status IN ($1, $2) AND updated_at < $3
	`

	result, err := r.db.ExecContext(ctx, query,
		model.DeliveryStatusSent, model.DeliveryStatusFailed, before)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up deliveries: %w", err)
	}

	return result.RowsAffected()
}
