package leave

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sovouthea1111/hr-system-api/internal/middleware"
	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
	"github.com/sovouthea1111/hr-system-api/internal/service/leave"
	apperrors "github.com/sovouthea1111/hr-system-api/pkg/errors"
	"github.com/sovouthea1111/hr-system-api/pkg/httputil"
)

type Handler struct {
	svc   leave.Service
	users repository.UserRepository
}

func NewHandler(svc leave.Service, users repository.UserRepository) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	leaves := r.Group("/leaves")
	{
		leaves.POST("", h.Submit)
		leaves.GET("", h.List)
		leaves.GET("/:id", h.Get)
		leaves.DELETE("/:id", h.Delete)
	}
}

// Submit files a leave request for the authenticated employee. The
// requester is resolved from the session, never from the payload.
func (h *Handler) Submit(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	var req model.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	employee, err := h.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("employee", err))
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), employee, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httputil.Response{Success: true, Data: created})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid leave id", err))
		return
	}

	found, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, found)
}

// List returns leave requests, scoped to the caller unless the caller is
// elevated, in which case the employee_id and status queries apply.
func (h *Handler) List(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	filters := &model.LeaveFilters{
		Status: model.LeaveStatus(c.Query("status")),
	}

	if claims.Role.Elevated() {
		if raw := c.Query("employee_id"); raw != "" {
			employeeID, err := uuid.Parse(raw)
			if err != nil {
				httputil.RespondWithError(c, apperrors.BadRequest("invalid employee id", err))
				return
			}
			filters.EmployeeID = employeeID
		}
	} else {
		filters.EmployeeID = claims.UserID
	}

	leaves, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, leaves)
}

func (h *Handler) Delete(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("missing session", nil))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid leave id", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, claims); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "leave request deleted")
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
