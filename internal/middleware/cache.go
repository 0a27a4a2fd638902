package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoStore keeps intermediaries from caching API responses, which carry
// per-user medical data. Preflight requests are left to CORS.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions {
			c.Header("Cache-Control", "no-store")
			c.Header("Pragma", "no-cache")
		}
		c.Next()
	}
}
