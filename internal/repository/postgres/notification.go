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

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, type, title, message, leave_id,
			read, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			notification.ID,
			notification.UserID,
			notification.Type,
			notification.Title,
			notification.Message,
			notification.LeaveID,
			notification.Read,
			notification.CreatedAt,
			notification.UpdatedAt,
		)
		return err
	})
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE id = $1
	`

	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

func (r *notificationRepository) List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error) {
	query := `
		SELECT n.* FROM notifications n
	`
	args := []interface{}{}
	where := " WHERE 1=1"

	if filters.LeaveType != "" {
		query += " LEFT JOIN leave_requests l ON l.id = n.leave_id"
		where += fmt.Sprintf(" AND LOWER(l.leave_type) LIKE $%d", len(args)+1)
		args = append(args, "%"+filters.LeaveType+"%")
	}

	if filters.UserID != uuid.Nil {
		where += fmt.Sprintf(" AND n.user_id = $%d", len(args)+1)
		args = append(args, filters.UserID)
	}

	if filters.Type != "" {
		where += fmt.Sprintf(" AND n.type = $%d", len(args)+1)
		args = append(args, filters.Type)
	}

	query += where + " ORDER BY n.created_at DESC"

	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND read = FALSE
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead flips the read flag on the viewer's notifications for the given
// leave request. Marking an already-read notification is a no-op, not an
// error.
func (r *notificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, leaveID uuid.UUID) error {
	query := `
		UPDATE notifications
		SET read = TRUE, updated_at = NOW()
		WHERE user_id = $1 AND leave_id = $2 AND read = FALSE
	`

	if _, err := r.db.ExecContext(ctx, query, userID, leaveID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
