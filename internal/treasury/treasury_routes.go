package treasury

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	group := r.Group("/treasury")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("/balance",
			middleware.RateLimitByCaller(5, 20),
			handler.Balance,
		)

		group.POST("/deposits",
			middleware.RateLimitByCaller(1, 3),
			middleware.Idempotency(rdb),
			handler.Deposit,
		)

		group.POST("/withdrawals",
			middleware.RateLimitByCaller(0.1, 1),
			middleware.Idempotency(rdb),
			handler.Withdraw,
		)
	}
}
