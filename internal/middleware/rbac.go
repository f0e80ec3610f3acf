package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"business-app-server/internal/auth"
	"business-app-server/internal/utils"
)

// RequirePermissions authorizes the request against the membership the
// identity holds in the resolved tenant. Every listed permission must be
// granted. The specific failure reason is logged, not returned: the caller
// only sees a generic 403.
func RequirePermissions(svc *auth.Service, log *zap.SugaredLogger, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := RequestCtx(c)

		membership, err := svc.Authorize(c.Request.Context(), rc.UserID, rc.Tenant, permissions)
		if err != nil {
			if !errors.Is(err, auth.ErrForbidden) {
				log.Errorw("authorization check failed", "user_id", rc.UserID, "path", c.FullPath(), "error", err)
				utils.InternalServerError(c, "Failed to authorize request")
				c.Abort()
				return
			}
			log.Infow("authorization denied",
				"user_id", rc.UserID,
				"path", c.FullPath(),
				"error", err)
			utils.Forbidden(c, "You do not have permission to access this resource.")
			c.Abort()
			return
		}

		rc.Membership = membership
		c.Next()
	}
}
