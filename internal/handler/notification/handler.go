package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sovouthea1111/hr-system-api/internal/middleware"
	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/service/leave"
	"github.com/sovouthea1111/hr-system-api/internal/service/notification"
	apperrors "github.com/sovouthea1111/hr-system-api/pkg/errors"
	"github.com/sovouthea1111/hr-system-api/pkg/httputil"
	"github.com/sovouthea1111/hr-system-api/pkg/metrics"
)

// Handler serves the notification feed and its two mutations. Feed and
// action responses are emitted unwrapped because the browser client
// consumes these shapes directly.
type Handler struct {
	notifications notification.Service
	leaves        leave.Service
	metrics       *metrics.Metrics
}

func NewHandler(notifications notification.Service, leaves leave.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		notifications: notifications,
		leaves:        leaves,
		metrics:       m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.Feed)
		notifications.POST("/mark-as-read", h.MarkAsRead)
		notifications.PUT("", h.Act)
	}
}

// Feed returns the viewer's notification list and unread counter in one
// payload. The optional type query narrows the list; the counter always
// covers the unfiltered set.
func (h *Handler) Feed(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	filter := c.Query("type")
	if filter == "" {
		filter = "all"
	}

	resp, err := h.notifications.Feed(c.Request.Context(), claims, filter)
	if err != nil {
		h.metrics.FeedFetches.WithLabelValues(filter, "error").Inc()
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.FeedFetches.WithLabelValues(filter, "success").Inc()
	h.metrics.UnreadGauge.Set(float64(resp.UnreadCount))
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	var req struct {
		LeaveID string `json:"leave_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	leaveID, err := uuid.Parse(req.LeaveID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid leave id", err))
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), claims, leaveID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "notification marked as read")
}

// Act approves or rejects the leave request behind a notification and
// confirms with a message the client surfaces as a toast.
func (h *Handler) Act(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	var req model.LeaveActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.leaves.Act(c.Request.Context(), claims, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	message := "Leave request approved"
	if req.Action == leave.ActionReject {
		message = "Leave request rejected"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func currentClaims(c *gin.Context) *model.TokenClaims {
	value, ok := c.Get(middleware.ContextClaims)
	if !ok {
		return nil
	}
	claims, ok := value.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
