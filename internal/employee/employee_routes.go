package employee

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByCaller(3, 10),
			handler.GetAll,
		)

		employees.GET("/count",
			middleware.RateLimitByCaller(5, 20),
			handler.Count,
		)

		employees.GET("/:id",
			middleware.RateLimitByCaller(3, 10),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByCaller(0.5, 2),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByCaller(0.5, 2),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByCaller(0.5, 2),
			handler.Deactivate,
		)
	}
}
