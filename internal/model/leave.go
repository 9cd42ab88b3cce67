package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
// Approve/reject is only legal from pending.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveType is the display label for a leave category.
type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "Annual Leave"
	LeaveTypeSick     LeaveType = "Sick Leave"
	LeaveTypePersonal LeaveType = "Personal Leave"
)

// LeaveTypeFromCode maps a raw server-side leave code (or an already
// labelled value) to its display label. Unrecognized codes fall back to
// Personal Leave.
func LeaveTypeFromCode(code string) LeaveType {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "sick", "sick leave":
		return LeaveTypeSick
	case "annual", "vacation", "annual leave":
		return LeaveTypeAnnual
	case "personal", "personal leave":
		return LeaveTypePersonal
	default:
		return LeaveTypePersonal
	}
}

type LeaveRequest struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	EmployeeID   uuid.UUID   `db:"employee_id" json:"employee_id"`
	EmployeeName string      `db:"employee_name" json:"employee_name"`
	LeaveType    string      `db:"leave_type" json:"leave_type"`
	StartDate    time.Time   `db:"start_date" json:"start_date"`
	EndDate      time.Time   `db:"end_date" json:"end_date"`
	Reason       string      `db:"reason" json:"reason,omitempty"`
	Image        string      `db:"image" json:"image,omitempty"`
	Status       LeaveStatus `db:"status" json:"status"`
	ApprovedBy   *uuid.UUID  `db:"approved_by" json:"approved_by,omitempty"`
	Comment      string      `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time  `db:"deleted_at" json:"-"`
}

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,leavetype"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
	Image     string `json:"image"`
}

type LeaveActionRequest struct {
	LeaveID string  `json:"leave_id" binding:"required,uuid"`
	Action  string  `json:"action" binding:"required,oneof=approve reject"`
	Comment *string `json:"comment"`
}

type LeaveFilters struct {
	EmployeeID uuid.UUID
	Status     LeaveStatus
	LeaveType  string
}
