package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
	apperrors "github.com/sovouthea1111/hr-system-api/pkg/errors"
	"github.com/sovouthea1111/hr-system-api/pkg/logger"
	"github.com/sovouthea1111/hr-system-api/pkg/messaging"
	"github.com/sovouthea1111/hr-system-api/pkg/metrics"
)

const (
	dateLayout    = "2006-01-02"
	inAppChannel  = "notifications"
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type Service interface {
	Submit(ctx context.Context, employee *model.User, req *model.CreateLeaveRequest) (*model.LeaveRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error)
	List(ctx context.Context, filters *model.LeaveFilters) ([]*model.LeaveRequest, error)
	Delete(ctx context.Context, id uuid.UUID, actor *model.TokenClaims) error
	Act(ctx context.Context, actor *model.TokenClaims, req *model.LeaveActionRequest) error
}

type service struct {
	leaves        repository.LeaveRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	deliveries    repository.DeliveryRepository
	broker        messaging.Broker
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

func NewService(
	leaves repository.LeaveRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	deliveries repository.DeliveryRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	l *logger.Logger,
) Service {
	return &service{
		leaves:        leaves,
		users:         users,
		notifications: notifications,
		deliveries:    deliveries,
		broker:        broker,
		metrics:       m,
		logger:        l,
	}
}

// Submit creates a pending leave request and fans out a leave_request
// notification to every elevated user, so the request shows up in the HR
// notification feed.
func (s *service) Submit(ctx context.Context, employee *model.User, req *model.CreateLeaveRequest) (*model.LeaveRequest, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid start date", err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid end date", err)
	}
	if end.Before(start) {
		return nil, apperrors.BadRequest("end date before start date", nil)
	}

	leave := &model.LeaveRequest{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName,
		LeaveType:    string(model.LeaveTypeFromCode(req.LeaveType)),
		StartDate:    start,
		EndDate:      end,
		Reason:       req.Reason,
		Image:        req.Image,
	}

	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	if err := s.notifyReviewers(ctx, leave); err != nil {
		s.logger.Error(err, "failed to notify reviewers", "leave_id", leave.ID.String())
	}

	return leave, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.LeaveRequest, error) {
	leave, err := s.leaves.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("leave request", err)
	}
	return leave, nil
}

func (s *service) List(ctx context.Context, filters *model.LeaveFilters) ([]*model.LeaveRequest, error) {
	leaves, err := s.leaves.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leaves, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor *model.TokenClaims) error {
	leave, err := s.leaves.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("leave request", err)
	}

	if leave.EmployeeID != actor.UserID && !actor.Role.Elevated() {
		return apperrors.Forbidden("cannot delete another employee's leave request", nil)
	}

	if err := s.leaves.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// Act approves or rejects a pending leave request. Terminal statuses are
// absorbing: acting on an already decided request fails with a conflict.
func (s *service) Act(ctx context.Context, actor *model.TokenClaims, req *model.LeaveActionRequest) error {
	if !actor.Role.Elevated() {
		return apperrors.Forbidden("only HR can act on leave requests", nil)
	}

	leaveID, err := uuid.Parse(req.LeaveID)
	if err != nil {
		return apperrors.BadRequest("invalid leave id", err)
	}

	leave, err := s.leaves.Get(ctx, leaveID)
	if err != nil {
		return apperrors.NotFound("leave request", err)
	}
	if leave.Status.Terminal() {
		return apperrors.Conflict("leave request already decided", nil)
	}

	status := model.LeaveStatusApproved
	notifType := model.NotificationTypeLeaveApproved
	if req.Action == ActionReject {
		status = model.LeaveStatusRejected
		notifType = model.NotificationTypeLeaveRejected
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	if err := s.leaves.SetStatus(ctx, leaveID, status, actor.UserID, comment); err != nil {
		return apperrors.Conflict("leave request already decided", err)
	}

	if err := s.notifyRequester(ctx, leave, notifType, status, comment); err != nil {
		s.logger.Error(err, "failed to notify requester",
			"leave_id", leave.ID.String(), "status", string(status))
	}

	return nil
}

func (s *service) notifyReviewers(ctx context.Context, leave *model.LeaveRequest) error {
	reviewers, err := s.users.List(ctx, &model.UserFilters{
		Role:   model.UserRoleHR,
		Status: model.UserStatusActive,
	})
	if err != nil {
		return fmt.Errorf("failed to list reviewers: %w", err)
	}

	message := fmt.Sprintf("%s requested %s from %s to %s",
		leave.EmployeeName,
		leave.LeaveType,
		leave.StartDate.Format(dateLayout),
		leave.EndDate.Format(dateLayout),
	)

	for _, reviewer := range reviewers {
		leaveID := leave.ID
		notification := &model.Notification{
			UserID:  reviewer.ID,
			Type:    model.NotificationTypeLeaveRequest,
			Message: message,
			LeaveID: &leaveID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			s.logger.Error(err, "failed to create notification", "user_id", reviewer.ID.String())
			continue
		}
		s.metrics.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()

		if err := s.broker.Publish(ctx, inAppChannel, messaging.Message{
			Type:    string(notification.Type),
			Payload: notification,
		}); err != nil {
			s.logger.Error(err, "failed to publish notification event")
		}
	}

	return nil
}

// notifyRequester records the decision notification and queues one
// delivery row per channel. Both copies go through the delivery table;
// the dispatcher worker publishes the in-app copy to the broker.
func (s *service) notifyRequester(ctx context.Context, leave *model.LeaveRequest, notifType model.NotificationType, status model.LeaveStatus, comment string) error {
	requester, err := s.users.Get(ctx, leave.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to get requester: %w", err)
	}

	message := fmt.Sprintf("Your %s request was %s", leave.LeaveType, status)
	leaveID := leave.ID
	notification := &model.Notification{
		UserID:  requester.ID,
		Type:    notifType,
		Message: message,
		LeaveID: &leaveID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.metrics.NotificationsCreated.WithLabelValues(string(notifType)).Inc()

	content := message
	if comment != "" {
		content = fmt.Sprintf("%s. Comment: %s", message, comment)
	}

	deliveries := []*model.NotificationDelivery{
		{
			NotificationID: notification.ID,
			UserID:         requester.ID,
			Channel:        model.DeliveryChannelEmail,
			Recipient:      requester.Email,
			Subject:        message,
			Content:        content,
		},
		{
			NotificationID: notification.ID,
			UserID:         requester.ID,
			Channel:        model.DeliveryChannelInApp,
			Recipient:      requester.ID.String(),
			Subject:        message,
			Content:        content,
		},
	}
	for _, delivery := range deliveries {
		if err := s.deliveries.Create(ctx, delivery); err != nil {
			return fmt.Errorf("failed to queue %s delivery: %w", delivery.Channel, err)
		}
	}

	return nil
}
