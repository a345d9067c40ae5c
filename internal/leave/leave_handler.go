package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mr-RSA369/leave-management-api/internal/middleware"
	"github.com/mr-RSA369/leave-management-api/internal/shared/apperror"
	"github.com/mr-RSA369/leave-management-api/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// NewHandlerWithRedis also caches successful submissions for the
// idempotency middleware to replay.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Message, httpErr.Errors)
}

func (h *Handler) Submit(c *gin.Context) {
	actorID := c.GetString("user_id")

	if h.rdb != nil {
		if lk := c.GetString("idempotency_lock_key"); lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	message := "Leave request submitted successfully"
	if resp.Status == StatusApproved {
		message = "Leave request auto-approved"
	}

	// Persist status and message along with the body so a replayed
	// request gets the exact response the first one did.
	if h.rdb != nil {
		if ck := c.GetString("idempotency_cache_key"); ck != "" {
			if payload, err := json.Marshal(resp); err == nil {
				cached, _ := json.Marshal(middleware.CachedResponse{
					Status:  http.StatusCreated,
					Message: message,
					Data:    payload,
				})
				_ = h.rdb.Set(c.Request.Context(), ck, cached, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, message, resp)
}

func (h *Handler) List(c *gin.Context) {
	actorID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	if perPage < 1 {
		perPage = 15
	}

	q := ListQuery{
		Status:  c.Query("status"),
		UserID:  c.Query("user_id"),
		Page:    page,
		PerPage: perPage,
	}

	items, total, err := h.service.List(c.Request.Context(), actorID, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", response.NewPage(items, total, page, perPage))
}

func (h *Handler) GetByID(c *gin.Context) {
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", resp)
}

func (h *Handler) Approve(c *gin.Context) {
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := h.service.Approve(c.Request.Context(), actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave request approved successfully", resp)
}

func (h *Handler) Reject(c *gin.Context) {
	actorID := c.GetString("user_id")
	id := c.Param("id")

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), actorID, id, req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave request rejected", resp)
}
