package middleware

import (
	"github.com/gin-gonic/gin"

	"business-app-server/internal/tenant"
)

// TenantHeader is the explicit tenant identification header.
const TenantHeader = "x-tenant-id"

// Tenant derives the request's tenant reference from the header or the host
// subdomain. It never rejects: downstream guards decide whether a missing or
// unknown tenant matters for the operation.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := RequestCtx(c)
		rc.Tenant = tenant.Identify(c.GetHeader(TenantHeader), c.Request.Host)
		c.Next()
	}
}
