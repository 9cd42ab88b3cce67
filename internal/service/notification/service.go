package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
	apperrors "github.com/sovouthea1111/hr-system-api/pkg/errors"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
)

const filterAll = "all"

// FeedResponse is the wire shape of GET /api/notifications.
type FeedResponse struct {
	Notifications []*FeedItem `json:"notifications"`
	UnreadCount   int         `json:"unread_count"`
}

type FeedItem struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"created_at"`
	Data      *FeedLeaveData `json:"data,omitempty"`
}

// FeedLeaveData carries the raw leave fields nested under a leave-typed
// feed item. leave_type is the raw code; display labelling is the
// consumer's concern.
type FeedLeaveData struct {
	LeaveID        string `json:"leave_id"`
	EmployeeID     string `json:"employee_id,omitempty"`
	EmployeeName   string `json:"employee_name"`
	EmployeeAvatar string `json:"employee_avatar,omitempty"`
	LeaveType      string `json:"leave_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Reason         string `json:"reason,omitempty"`
	Image          string `json:"image,omitempty"`
	Status         string `json:"status"`
}

type Service interface {
	Feed(ctx context.Context, viewer *model.TokenClaims, filterType string) (*FeedResponse, error)
	MarkAsRead(ctx context.Context, viewer *model.TokenClaims, leaveID uuid.UUID) error
}

type service struct {
	notifications repository.NotificationRepository
	leaves        repository.LeaveRepository
	users         repository.UserRepository
	logger        *logger.Logger
}

func NewService(
	notifications repository.NotificationRepository,
	leaves repository.LeaveRepository,
	users repository.UserRepository,
	l *logger.Logger,
) Service {
	return &service{
		notifications: notifications,
		leaves:        leaves,
		users:         users,
		logger:        l,
	}
}

// Feed assembles the viewer's notification list and unread counter in a
// single response, so both always come from the same snapshot. The unread
// counter is computed over the unfiltered set regardless of filterType.
func (s *service) Feed(ctx context.Context, viewer *model.TokenClaims, filterType string) (*FeedResponse, error) {
	filters := &model.NotificationFilters{UserID: viewer.UserID}
	if filterType != "" && filterType != filterAll {
		filters.LeaveType = strings.ToLower(strings.ReplaceAll(filterType, "-", " "))
	}

	notifications, err := s.notifications.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notifications.CountUnread(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	items := make([]*FeedItem, 0, len(notifications))
	for _, n := range notifications {
		item := &FeedItem{
			ID:        n.ID.String(),
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if n.LeaveID != nil {
			data, err := s.leaveData(ctx, *n.LeaveID)
			if err != nil {
				s.logger.Error(err, "failed to load leave data",
					"notification_id", n.ID.String(), "leave_id", n.LeaveID.String())
				continue
			}
			item.Data = data
		}
		items = append(items, item)
	}

	return &FeedResponse{Notifications: items, UnreadCount: unread}, nil
}

func (s *service) MarkAsRead(ctx context.Context, viewer *model.TokenClaims, leaveID uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, viewer.UserID, leaveID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *service) leaveData(ctx context.Context, leaveID uuid.UUID) (*FeedLeaveData, error) {
	leave, err := s.leaves.Get(ctx, leaveID)
	if err != nil {
		return nil, err
	}

	data := &FeedLeaveData{
		LeaveID:      leave.ID.String(),
		EmployeeID:   leave.EmployeeID.String(),
		EmployeeName: leave.EmployeeName,
		LeaveType:    leave.LeaveType,
		StartDate:    leave.StartDate.Format("2006-01-02"),
		EndDate:      leave.EndDate.Format("2006-01-02"),
		Reason:       leave.Reason,
		Image:        leave.Image,
		Status:       string(leave.Status),
	}

	if employee, err := s.users.Get(ctx, leave.EmployeeID); err == nil {
		data.EmployeeAvatar = employee.Avatar
	}

	return data, nil
}
