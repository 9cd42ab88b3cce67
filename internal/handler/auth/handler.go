package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/service/auth"
	apperrors "github.com/sovouthea1111/hr-system-api/pkg/errors"
	"github.com/sovouthea1111/hr-system-api/pkg/httputil"
)

type Handler struct {
	svc auth.Service
}

func NewHandler(svc auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httputil.Response{
			Success: false,
			Error: &httputil.Error{
				Code:    http.StatusUnauthorized,
				Message: "invalid credentials",
			},
		})
		return
	}

	httputil.RespondWithSuccess(c, resp)
}
