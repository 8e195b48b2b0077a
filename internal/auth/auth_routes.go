package auth

import (
	"defisalary/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/auth")
	{
		group.POST("/login",
			middleware.RateLimitByIP(1, 5),
			handler.Login,
		)
	}
}
