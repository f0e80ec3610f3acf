package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"business-app-server/internal/auth"
	"business-app-server/internal/config"
	"business-app-server/internal/utils"
)

// AuthMiddleware verifies the bearer access token and re-confirms the
// identity against the credential store, so a deactivated user is rejected
// even while holding a syntactically valid token.
func AuthMiddleware(svc *auth.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		user, err := svc.ValidateUser(c.Request.Context(), claims.Subject)
		if err != nil {
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		rc := RequestCtx(c)
		rc.UserID = user.ID
		rc.Claims = claims
		rc.User = user

		c.Next()
	}
}
