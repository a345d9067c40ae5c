package leave

import (
	"github.com/mr-RSA369/leave-management-api/internal/middleware"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", handler.List)
		requests.POST("", middleware.Idempotency(rdb), handler.Submit)
		requests.GET("/:id", handler.GetByID)
		requests.POST("/:id/approve", middleware.RequireRoles(user.RoleHR, user.RoleAdmin), handler.Approve)
		requests.POST("/:id/reject", middleware.RequireRoles(user.RoleHR, user.RoleAdmin), handler.Reject)
	}
}
