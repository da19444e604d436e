package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

type PermissionMiddleware struct {
	enforcer *permission.Enforcer
}

func NewPermissionMiddleware(enforcer *permission.Enforcer) *PermissionMiddleware {
	return &PermissionMiddleware{enforcer: enforcer}
}

// RequirePermission rejects callers whose role may not perform action on resource.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := utils.GetRequestContext(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		if !m.enforcer.Allowed(rc.Role, resource, action) {
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
