package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORSMiddleware reflects the Origin header for origins in the allow
// list so the browser frontend can call the API. Requests without an
// Origin header (curl, server-to-server) pass through untouched.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin") // Origin of the browser request
		if origin != "" {
			// Check the origin against the allow list
			for _, allowed := range allowedOrigins {
				if allowed != "" && allowed == origin {
					c.Header("Access-Control-Allow-Origin", origin)                      // Reflect the allowed origin
					c.Header("Vary", "Origin")                                           // Response varies by origin
					c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS") // Methods the API serves
					c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
					break
				}
			}
		}
		// Preflight requests end here
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
