package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sovouthea1111/hr-system-api/internal/model"
)

const displayTimeLayout = "Jan 2, 2006 3:04 PM"

type rawFeed struct {
	Notifications []rawNotification `json:"notifications"`
	UnreadCount   int               `json:"unread_count"`
}

type rawNotification struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Read      bool          `json:"read"`
	CreatedAt string        `json:"created_at"`
	Data      *rawLeaveData `json:"data"`
}

type rawLeaveData struct {
	LeaveID        string `json:"leave_id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	EmployeeAvatar string `json:"employee_avatar"`
	LeaveType      string `json:"leave_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Reason         string `json:"reason"`
	Image          string `json:"image"`
	Status         string `json:"status"`
}

// DecodeFeed parses a feed response body into client notifications and the
// canonical unread counter.
func DecodeFeed(body []byte) ([]*Notification, int, error) {
	var raw rawFeed
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to decode feed response: %w", err)
	}

	notifications := make([]*Notification, 0, len(raw.Notifications))
	for _, r := range raw.Notifications {
		n, err := decodeNotification(r)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}

	return notifications, raw.UnreadCount, nil
}

// decodeNotification maps one raw record into the client shape. A
// leave_request record without nested leave data is a protocol violation:
// the client never invents a leave request it cannot back.
func decodeNotification(raw rawNotification) (*Notification, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("notification missing id")
	}

	n := &Notification{
		ID:        raw.ID,
		Type:      model.NotificationType(raw.Type),
		Title:     raw.Title,
		Message:   raw.Message,
		Timestamp: displayTimestamp(raw.CreatedAt),
		Read:      ReadStateUnread,
	}
	if raw.Read {
		n.Read = ReadStateRead
	}

	if n.Type == model.NotificationTypeLeaveRequest && raw.Data == nil {
		return nil, fmt.Errorf("leave_request notification %s has no leave data", raw.ID)
	}

	if raw.Data != nil {
		n.LeaveRequest = &LeaveRequest{
			ID:             raw.Data.LeaveID,
			EmployeeID:     raw.Data.EmployeeID,
			EmployeeName:   raw.Data.EmployeeName,
			EmployeeAvatar: raw.Data.EmployeeAvatar,
			Type:           model.LeaveTypeFromCode(raw.Data.LeaveType),
			StartDate:      raw.Data.StartDate,
			EndDate:        raw.Data.EndDate,
			Reason:         raw.Data.Reason,
			Image:          raw.Data.Image,
			Status:         decodeLeaveStatus(raw.Data.Status),
		}
	}

	return n, nil
}

func decodeLeaveStatus(raw string) model.LeaveStatus {
	switch model.LeaveStatus(raw) {
	case model.LeaveStatusApproved:
		return model.LeaveStatusApproved
	case model.LeaveStatusRejected:
		return model.LeaveStatusRejected
	default:
		return model.LeaveStatusPending
	}
}

// displayTimestamp renders a server timestamp for display. Unparseable
// values pass through untouched rather than dropping the record.
func displayTimestamp(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format(displayTimeLayout)
}
