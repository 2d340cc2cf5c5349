package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses as cacheable by the browser only. Uploaded
// project files are immutable (UUID names) but not meant for shared caches.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d, immutable", maxAgeSeconds))
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
