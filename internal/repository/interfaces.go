package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	}

	LeaveRepository interface {
		Create(ctx context.Context, leave *model.LeaveRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
		Update(ctx context.Context, leave *model.LeaveRequest) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.LeaveFilters) ([]*model.LeaveRequest, error)
		SetStatus(ctx context.Context, id uuid.UUID, status model.LeaveStatus, approvedBy uuid.UUID, comment string) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error)
		CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
		MarkRead(ctx context.Context, userID uuid.UUID, leaveID uuid.UUID) error
	}

	DeliveryRepository interface {
		Create(ctx context.Context, delivery *model.NotificationDelivery) error
		GetPendingWithLock(ctx context.Context, limit int) ([]*model.NotificationDelivery, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.DeliveryStatus, lastError *string, nextRetryAt *time.Time) error
		MarkSent(ctx context.Context, id uuid.UUID) error
		Cleanup(ctx context.Context, before time.Time) (int64, error)
	}
)
