package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeLeaveRequest  NotificationType = "leave_request"
	NotificationTypeLeaveApproved NotificationType = "leave_approved"
	NotificationTypeLeaveRejected NotificationType = "leave_rejected"
	NotificationTypeSystem        NotificationType = "system"
)

// Notification is a feed entry addressed to a single user. Leave-typed
// notifications always reference the backing leave request; system
// notifications carry a title instead.
type Notification struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title,omitempty"`
	Message   string           `db:"message" json:"message"`
	LeaveID   *uuid.UUID       `db:"leave_id" json:"leave_id,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

type NotificationFilters struct {
	UserID    uuid.UUID
	Type      NotificationType
	LeaveType string
}
