package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/utils"
)

// handshakeToken prefers ?token= since browsers cannot set headers on a
// websocket handshake; other clients may still send a bearer header.
func handshakeToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return bearerToken(c)
}

// WebSocketAuthMiddleware authenticates the tracking feed handshake.
// Failures are plain 401s: the client is not reading JSON yet.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := handshakeToken(c)
		claims, err := utils.ValidateToken(token)
		if token == "" || err != nil {
			utils.InfoLogger.WithField("path", c.Request.URL.Path).Debug("websocket handshake rejected")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		setPrincipal(c, token, claims)
		c.Next()
	}
}
