package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CSRFCookieName  = "XSRF-TOKEN"
	HeaderCSRFToken = "X-XSRF-TOKEN"

	csrfCookieMaxAge = 12 * 60 * 60
)

// CSRF implements the cookie-to-header double-submit scheme. Safe methods
// receive a token cookie the browser client echoes back in the
// X-XSRF-TOKEN header on mutating requests; a missing or mismatched echo
// is rejected.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if _, err := c.Cookie(CSRFCookieName); err != nil {
				c.SetCookie(CSRFCookieName, uuid.New().String(), csrfCookieMaxAge, "/", "", false, false)
			}
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "missing CSRF cookie",
			})
			return
		}

		header := c.GetHeader(HeaderCSRFToken)
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "CSRF token mismatch",
			})
			return
		}

		c.Next()
	}
}
