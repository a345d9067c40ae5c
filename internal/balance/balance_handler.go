package balance

import (
	"net/http"

	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
	"github.com/mr-RSA369/leave-management-api/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Message, httpErr.Errors)
}

// Get returns the leave balance for the authenticated user, or for the
// user named by ?user_id when the caller is HR or Admin.
func (h *Handler) Get(c *gin.Context) {
	actorID := c.GetString("user_id")
	targetUserID := c.Query("user_id")

	resp, err := h.service.GetForUser(c.Request.Context(), actorID, targetUserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave balance retrieved successfully", resp)
}

// GetAll returns per-user balance summaries, optionally filtered by ?role.
func (h *Handler) GetAll(c *gin.Context) {
	actorID := c.GetString("user_id")
	roleFilter := c.Query("role")

	resp, err := h.service.GetAll(c.Request.Context(), actorID, roleFilter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "All users leave balance retrieved successfully", resp)
}
