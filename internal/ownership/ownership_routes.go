package ownership

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	owner := r.Group("/ledger/owner")
	owner.Use(middleware.AuthMiddleware())
	owner.Use(middleware.ContextLogger(logger))
	{
		owner.GET("",
			middleware.RateLimitByCaller(3, 10),
			handler.GetOwner,
		)

		owner.POST("",
			middleware.RateLimitByCaller(0.1, 1),
			handler.Transfer,
		)
	}
}
