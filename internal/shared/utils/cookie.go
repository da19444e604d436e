package utils

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"
	CSRFTokenCookie   = "csrf_token"
	CSRFTokenHeader   = "X-CSRF-Token"
	CSRFTokenField    = "csrf_token"
	csrfTokenBytes    = 32
)

// GetTokenFromCookie retrieves a token from the named cookie, or "" when absent.
func GetTokenFromCookie(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err == nil && token != "" {
		return token
	}
	return ""
}

// SetCSRFCookie generates a random CSRF token and sets it as a non-HttpOnly cookie
// for the double submit pattern. It returns the token.
func SetCSRFCookie(c *gin.Context, maxAge int, secure bool) string {
	token := generateCSRFToken()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFTokenCookie, token, maxAge, "/", "", secure, false)
	return token
}

// GetSubmittedCSRFToken returns the token sent with the request, preferring the
// X-CSRF-Token header over the csrf_token form field.
func GetSubmittedCSRFToken(c *gin.Context) string {
	if token := c.GetHeader(CSRFTokenHeader); token != "" {
		return token
	}
	return c.PostForm(CSRFTokenField)
}

func generateCSRFToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: failed to generate random token: " + err.Error())
	}
	return hex.EncodeToString(b)
}
