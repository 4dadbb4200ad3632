package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
)

const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	csrfTokenLength     = 32
	csrfTokenExpiry     = 24 * time.Hour
)

func generateCSRFToken() (string, error) {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern: a readable
// csrf_token cookie whose value must be echoed in the X-CSRF-Token header
// on every state-changing request. Required because the session rides in
// a cookie. Pre-session auth endpoints are exempt; they are covered by
// rate limiting instead.
func CSRFMiddleware() gin.HandlerFunc {
	csrfExemptPaths := map[string]bool{
		"/api/auth/login":  true,
		"/api/auth/signup": true,
		"/healthz":         true,
	}

	return func(c *gin.Context) {
		exempt := csrfExemptPaths[c.Request.URL.Path]

		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, genErr := generateCSRFToken()
			if genErr != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}
			// HttpOnly=false: the frontend reads this cookie to fill
			// the header.
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, newToken, int(csrfTokenExpiry.Seconds()), "/", "", gin.Mode() == gin.ReleaseMode, false)
			csrfCookie = newToken
		}

		method := c.Request.Method
		if exempt || method == "GET" || method == "HEAD" || method == "OPTIONS" {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}
		if headerToken != csrfCookie {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
