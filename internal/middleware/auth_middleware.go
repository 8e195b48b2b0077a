package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "defisalary/internal/auth/errors"
	"defisalary/internal/shared/contextutil"
	"defisalary/internal/shared/ethaddr"
	"defisalary/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token and exposes the caller's wallet
// address to handlers and services. It does NOT decide ownership; the
// owner gate lives in ledger state and is checked per operation.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		address, ok := claims["address"].(string)
		if !ok || !ethaddr.IsValid(address) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Wallet address not found in token", nil)
			c.Abort()
			return
		}
		address = ethaddr.Normalize(address)

		operatorID, _ := claims["operator_id"].(string)

		c.Set("caller_address", address)
		c.Set("operator_id", operatorID)

		ctx := contextutil.WithCallerAddress(c.Request.Context(), address)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
