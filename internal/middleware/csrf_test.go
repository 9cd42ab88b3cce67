package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF())
	r.GET("/feed", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/feed", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCSRFIssuesCookieOnSafeRequest(t *testing.T) {
	r := csrfRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var issued *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == CSRFCookieName {
			issued = cookie
		}
	}
	require.NotNil(t, issued)
	assert.NotEmpty(t, issued.Value)
	assert.False(t, issued.HttpOnly, "the browser client must be able to read the token")
}

func TestCSRFAcceptsMatchingHeaderEcho(t *testing.T) {
	r := csrfRouter()

	req := httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader("{}"))
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-123"})
	req.Header.Set(HeaderCSRFToken, "tok-123")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsMissingOrMismatchedHeader(t *testing.T) {
	r := csrfRouter()

	// No header at all.
	req := httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader("{}"))
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-123"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong header value.
	req = httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader("{}"))
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-123"})
	req.Header.Set(HeaderCSRFToken, "tok-456")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No cookie.
	req = httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader("{}"))
	req.Header.Set(HeaderCSRFToken, "tok-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
