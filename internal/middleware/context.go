package middleware

import (
	"github.com/gin-gonic/gin"

	"business-app-server/internal/models"
	"business-app-server/internal/tenant"
	"business-app-server/internal/utils"
)

const requestContextKey = "requestContext"

// RequestContext carries the authenticated-request state through the
// middleware chain. It is populated stage by stage: Tenant sets the tenant
// reference, Auth sets the identity, RequirePermissions sets the membership.
// One value exists per request; handlers read it instead of reassembling the
// state from loose context keys.
type RequestContext struct {
	UserID     string
	Claims     *utils.Claims
	User       *models.User
	Tenant     *tenant.Ref
	Membership *models.Membership
}

// RequestCtx returns the request's context value, creating it on first use.
func RequestCtx(c *gin.Context) *RequestContext {
	if value, ok := c.Get(requestContextKey); ok {
		if rc, ok := value.(*RequestContext); ok {
			return rc
		}
	}
	rc := &RequestContext{}
	c.Set(requestContextKey, rc)
	return rc
}
