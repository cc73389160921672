package middlewares

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/utils"
)

// DefaultAllowOrigins is used when no usable origin is configured.
var DefaultAllowOrigins = []string{"http://localhost:3000"}

// ValidOrigin reports whether origin is "*" or an http(s) origin.
func ValidOrigin(origin string) bool {
	return origin == "*" || strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
}

// CORSMiddlewares allows allowOrigins, or every origin when the list holds "*".
// Blank or malformed entries are skipped; cors.New panics on them.
func CORSMiddlewares(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range allowOrigins {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
		case o == "*":
			cfg.AllowAllOrigins = true
		case ValidOrigin(o):
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		default:
			utils.ErrorLogger.Warnf("ignoring invalid CORS origin %q", o)
		}
	}

	switch {
	case cfg.AllowAllOrigins:
		cfg.AllowOrigins = nil
	case len(cfg.AllowOrigins) == 0:
		utils.ErrorLogger.Warnf("no CORS origins configured, using %v", DefaultAllowOrigins)
		cfg.AllowOrigins = DefaultAllowOrigins
	}
	return cors.New(cfg)
}
