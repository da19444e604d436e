package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

func SetRequestContext(c *gin.Context, rc *authorization.RequestContext) {
	c.Set(constants.ContextKeyRequestContext, rc)
	c.Set(constants.ContextKeyUserID, rc.UserID)
	c.Set(constants.ContextKeyUserRole, rc.Role.String())
}

// GetRequestContext returns the caller set by the auth middleware.
func GetRequestContext(c *gin.Context) (*authorization.RequestContext, bool) {
	v, ok := c.Get(constants.ContextKeyRequestContext)
	if !ok {
		return nil, false
	}
	rc, ok := v.(*authorization.RequestContext)
	return rc, ok && rc != nil
}

// RequireRequestContext returns the caller or writes a 401 and reports false.
func RequireRequestContext(c *gin.Context) (*authorization.RequestContext, bool) {
	rc, ok := GetRequestContext(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return nil, false
	}
	return rc, true
}
