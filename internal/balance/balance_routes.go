package balance

import (
	"github.com/mr-RSA369/leave-management-api/internal/middleware"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balance := r.Group("/leave-balance")
	balance.Use(middleware.AuthMiddleware())
	{
		balance.GET("", handler.Get)
		balance.GET("/all", middleware.RequireRoles(user.RoleHR, user.RoleAdmin), handler.GetAll)
	}
}
