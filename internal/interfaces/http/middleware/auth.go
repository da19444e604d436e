package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// csrfCookieMaxAge is one week.
const csrfCookieMaxAge = 7 * 24 * 3600

type AuthMiddleware struct {
	jwtService   *auth.JWTService
	cookieSecure bool
	logger       logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, cookieSecure bool, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// RequireAuth verifies the access token from the access_token cookie or the
// Authorization bearer header and stores a RequestContext for the handlers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, fromCookie, err := extractToken(c)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			if errors.IsSecurityEvent(err) {
				m.logger.Warnw("rejected access token", "error", err, "client_ip", c.ClientIP())
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		rc := authorization.NewRequestContext(claims.UserID, authorization.ParseUserRole(claims.Role.String()), "")
		if fromCookie {
			rc.CSRFToken = m.ensureCSRFCookie(c)
		} else {
			c.Set(bearerAuthKey, true)
		}
		utils.SetRequestContext(c, rc)

		c.Next()
	}
}

// ensureCSRFCookie returns the session's CSRF token, issuing one when absent.
func (m *AuthMiddleware) ensureCSRFCookie(c *gin.Context) string {
	if token := utils.GetTokenFromCookie(c, utils.CSRFTokenCookie); token != "" {
		return token
	}
	return utils.SetCSRFCookie(c, csrfCookieMaxAge, m.cookieSecure)
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

func extractToken(c *gin.Context) (token string, fromCookie bool, err error) {
	if token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie); token != "" {
		return token, true, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, tokenError("missing authorization token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false, tokenError("invalid authorization header format")
	}
	return parts[1], false, nil
}
