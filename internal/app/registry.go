package app

import (
	"database/sql"

	"github.com/mr-RSA369/leave-management-api/internal/auth"
	"github.com/mr-RSA369/leave-management-api/internal/balance"
	"github.com/mr-RSA369/leave-management-api/internal/leave"
	"github.com/mr-RSA369/leave-management-api/internal/messaging/kafka"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(userRepo)
	leaveService := leave.NewService(db, leaveRepo, userRepo, outboxRepo)
	balanceService := balance.NewService(userRepo, leaveRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	balanceHandler := balance.NewHandler(balanceService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		balance.RegisterRoutes(api, balanceHandler)
	}

	return nil
}
