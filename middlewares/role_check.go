package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/policy"
	"github.com/yeremiapane/foodhub/utils"
)

// Authorize admits the request only when the principal's role may perform
// action on resource. A missing principal and a denied one both get 401.
func Authorize(resource policy.Resource, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := CurrentUser(c)
		if !ok {
			utils.RespondAppError(c, utils.Unauthorized("unauthorized"))
			c.Abort()
			return
		}

		if !policy.Allowed(role, resource, action) {
			utils.InfoLogger.WithFields(map[string]interface{}{
				"user_id":  userID,
				"role":     role,
				"resource": resource,
				"action":   action,
			}).Warn("access denied")
			utils.RespondAppError(c, utils.Unauthorized("unauthorized"))
			c.Abort()
			return
		}

		c.Next()
	}
}
