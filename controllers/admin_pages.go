package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/choudharyperfumes/storefront/middleware"
	"github.com/gin-gonic/gin"
)

// AdminPage serves the admin UI build from ADMIN_UI_DIR. Unknown paths fall
// back to index.html so client-side routes load. Without a build it answers
// with a small JSON description of the page.
func (a *App) AdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := c.Request.URL.Path
		dir := a.Config.AdminUIDir
		if dir == "" {
			_, authenticated := c.Get(middleware.AdminSessionKey)
			c.JSON(http.StatusOK, gin.H{
				"page":          page,
				"authenticated": authenticated,
				"login":         middleware.LoginPath,
			})
			return
		}

		rel := path.Clean("/" + c.Param("path"))
		file := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
