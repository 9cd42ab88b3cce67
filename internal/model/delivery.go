package model

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryStatusPending  DeliveryStatus = "pending"
	DeliveryStatusSent     DeliveryStatus = "sent"
	DeliveryStatusFailed   DeliveryStatus = "failed"
	DeliveryStatusRetrying DeliveryStatus = "retrying"
)

const (
	DeliveryChannelEmail = "email"
	DeliveryChannelInApp = "in_app"
)

// NotificationDelivery is a queued outbound copy of a notification. The
// dispatcher worker claims pending rows and fans them out per channel.
type NotificationDelivery struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	NotificationID uuid.UUID      `db:"notification_id" json:"notification_id"`
	UserID         uuid.UUID      `db:"user_id" json:"user_id"`
	Channel        string         `db:"channel" json:"channel"`
	Recipient      string         `db:"recipient" json:"recipient"`
	Subject        string         `db:"subject" json:"subject"`
	Content        string         `db:"content" json:"content"`
	Status         DeliveryStatus `db:"status" json:"status"`
	RetryCount     int            `db:"retry_count" json:"retry_count"`
	LastError      *string        `db:"last_error" json:"last_error,omitempty"`
	NextRetryAt    *time.Time     `db:"next_retry_at" json:"next_retry_at,omitempty"`
	SentAt         *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
