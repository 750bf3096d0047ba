package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole allows the request through only if the caller's role,
// as carried in the verified token claims, is in the allow list.
// Role is immutable after signup, so the claim is trusted without a
// database round trip.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role") // Get role from context
		// Check if role exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		// Check the role against the allow list
		for _, allowed := range roles {
			if role == allowed {
				c.Next() // Allowed, proceed to the next handler
				return
			}
		}
		// Role not in the allow list, abort with forbidden status
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	}
}
