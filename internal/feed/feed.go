// Package feed implements the client side of the HR notification feed: a
// polling store that owns the canonical notification list and unread
// counter, a presentation layer that derives role- and ownership-filtered
// views, and an action layer that reconciles mark-as-read and
// approve/reject mutations with the server.
package feed

import (
	"github.com/sovouthea1111/hr-system-api/internal/model"
)

// ReadState is the read flag as a tagged variant, so an illegal state is
// unrepresentable rather than merely unreachable.
type ReadState string

const (
	ReadStateUnread ReadState = "unread"
	ReadStateRead   ReadState = "read"
)

// Notification is the client-side shape of a feed entry. Timestamp is a
// display string, pre-formatted by the decoder.
type Notification struct {
	ID           string
	Type         model.NotificationType
	Title        string
	Message      string
	Timestamp    string
	Read         ReadState
	LeaveRequest *LeaveRequest
}

// LeaveRequest is the nested leave entity carried by leave_request-typed
// notifications. All fields are display strings except the typed status
// and leave-type label.
type LeaveRequest struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	EmployeeAvatar string
	Type           model.LeaveType
	StartDate      string
	EndDate        string
	Reason         string
	Image          string
	Status         model.LeaveStatus
}

// Actionable reports whether approve/reject transitions are still possible.
// Terminal statuses are absorbing.
func (n *Notification) Actionable() bool {
	return n.LeaveRequest != nil && n.LeaveRequest.Status == model.LeaveStatusPending
}

func cloneNotification(n *Notification) *Notification {
	c := *n
	if n.LeaveRequest != nil {
		lr := *n.LeaveRequest
		c.LeaveRequest = &lr
	}
	return &c
}
