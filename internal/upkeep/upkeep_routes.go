package upkeep

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, logger *zap.Logger) {
	group := r.Group("/upkeep")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("/due",
			middleware.RateLimitByCaller(5, 20),
			handler.CheckDue,
		)

		// Settlement is deliberately not owner-gated: any authenticated
		// automation principal may execute a due set, like performUpkeep.
		group.POST("/settlements",
			middleware.RateLimitByCaller(1, 3),
			middleware.Idempotency(rdb),
			handler.Settle,
		)
	}
}
