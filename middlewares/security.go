package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiCSP forbids every resource type; responses are JSON, never documents.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders hardens API responses. HSTS is only sent over HTTPS, and
// responses carrying a principal or a cart are marked uncacheable.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("Referrer-Policy", "no-referrer")

		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		if c.GetHeader("Authorization") != "" || strings.HasPrefix(c.Request.URL.Path, "/cart") {
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}
