package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/models"
	"github.com/yeremiapane/foodhub/utils"
)

// Context keys set for an authenticated principal.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func setPrincipal(c *gin.Context, token string, claims *utils.CustomClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, models.Role(claims.Role))
	c.Set(ContextToken, token)
}

// AuthMiddleware requires a valid, unrevoked bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondAppError(c, utils.Unauthorized("authorization header missing"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			utils.RespondAppError(c, utils.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		setPrincipal(c, token, claims)
		c.Next()
	}
}

// OptionalAuth sets the principal when a valid token is present and lets
// anonymous requests through unchanged.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := utils.ValidateToken(token); err == nil {
				setPrincipal(c, token, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the principal set by the auth middlewares.
func CurrentUser(c *gin.Context) (uint, models.Role, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return 0, "", false
	}
	userID, _ := id.(uint)
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return userID, r, userID != 0
}
