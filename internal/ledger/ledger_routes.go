package ledger

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	group := r.Group("/ledger")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.GET("/info",
			middleware.RateLimitByCaller(5, 20),
			handler.Info,
		)

		group.GET("/conversion",
			middleware.RateLimitByCaller(5, 20),
			handler.Conversion,
		)
	}
}
