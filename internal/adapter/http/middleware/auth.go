package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todos/internal/adapter/http/helper"
)

// GinJwtMiddleware rejects unauthenticated callers outright: no token,
// malformed token and expired token all end the request with 401 before
// any handler runs.
func GinJwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Invalid authorization format"},
			})

			c.Abort()
			return
		}

		claims, err := helper.VerifyJwtToken(strings.TrimPrefix(bearer, "Bearer "))

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		userId, ok := claims["user_id"].(float64)

		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		c.Set("x-user-id", int(userId))
		c.Next()
	}
}
