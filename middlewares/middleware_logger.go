package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/foodhub/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
			"path":      path,
		}
		if userID, _, ok := CurrentUser(c); ok {
			fields["user_id"] = userID
		}

		switch {
		case c.Writer.Status() >= 500:
			utils.ErrorLogger.WithFields(fields).Error("request")
		case c.Writer.Status() >= 400:
			utils.InfoLogger.WithFields(fields).Warn("request")
		default:
			utils.InfoLogger.WithFields(fields).Info("request")
		}
	}
}
