package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/choudharyperfumes/storefront/auth"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/gin-gonic/gin"
)

const (
	LoginPath         = "/admin/login"
	AdminSessionKey   = "adminSession"
	unauthorizedError = "Unauthorized"
)

type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.AdminSession, error)
}

// protectedAPI lists the API prefixes whose writes need an admin session.
// reviews only guards DELETE because shoppers post reviews.
var protectedAPI = []struct {
	prefix  string
	methods []string
}{
	{"/api/products", []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}},
	{"/api/upload", []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}},
	{"/api/banners", []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}},
	{"/api/settings", []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}},
	{"/api/reviews", []string{http.MethodDelete}},
	{"/api/products/export", []string{http.MethodGet}},
	{"/api/auth/password", []string{http.MethodPost, http.MethodPut}},
}

// underPrefix matches whole path segments, so /api/productsX is not
// /api/products.
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAdminPage(path string) bool {
	return underPrefix(path, "/admin") && !underPrefix(path, LoginPath)
}

func isProtectedAPI(method, path string) bool {
	for _, p := range protectedAPI {
		if !underPrefix(path, p.prefix) {
			continue
		}
		for _, m := range p.methods {
			if m == method {
				return true
			}
		}
	}
	return false
}

// AdminGate runs on every request. Admin pages without a session redirect to
// the login page; protected API calls without one get 401.
func AdminGate(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		page := isAdminPage(path)
		api := isProtectedAPI(c.Request.Method, path)
		if !page && !api {
			c.Next()
			return
		}

		token, _ := c.Cookie(auth.CookieName)
		sess, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if page {
				c.Redirect(http.StatusTemporaryRedirect, LoginPath)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedError})
			return
		}

		c.Set(AdminSessionKey, sess)
		c.Next()
	}
}
