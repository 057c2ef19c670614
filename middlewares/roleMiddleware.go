package middlewares

import (
	"net/http"

	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// Authorize rejects the request before any mutation when the acting
// user's role is not in the allowed set. Must run after AuthMiddleware.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		user, ok := userVal.(models.User)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Your role is not allowed to perform this action"})
		c.Abort()
	}
}
