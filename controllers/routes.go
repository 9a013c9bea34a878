package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts every route. The admin gate is installed by the caller
// before Register so it sees all requests, 404s included.
func (a *App) Register(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	api.GET("/products", a.GetProducts())
	api.GET("/products/export", a.ExportProducts())
	api.GET("/products/slug/:slug", a.GetProductBySlug())
	api.GET("/products/:id", a.GetProduct())
	api.POST("/products", a.AddProduct())
	api.PUT("/products/:id", a.UpdateProduct())
	api.DELETE("/products/:id", a.DeleteProduct())

	api.GET("/categories", a.GetCategories())

	api.GET("/banners", a.GetBanners())
	api.GET("/banners/active", a.GetActiveBanners())
	api.POST("/banners", a.AddBanner())
	api.PUT("/banners/:id", a.UpdateBanner())
	api.DELETE("/banners/:id", a.DeleteBanner())

	api.GET("/reviews", a.GetReviews())
	api.POST("/reviews", a.AddReview())
	api.DELETE("/reviews", a.DeleteReview())

	api.GET("/settings", a.GetSettings())
	api.PUT("/settings", a.UpsertSetting())

	api.POST("/upload", a.UploadImage())

	api.POST("/auth/login", a.Login())
	api.POST("/auth/logout", a.Logout())
	api.GET("/auth/session", a.Session())
	api.PUT("/auth/password", a.ChangePassword())

	api.GET("/cart", a.GetCart())
	api.DELETE("/cart", a.ClearCart())
	api.POST("/cart/items", a.AddCartItem())
	api.PUT("/cart/items/:key", a.UpdateCartItem())
	api.DELETE("/cart/items/:key", a.RemoveCartItem())
	api.POST("/cart/checkout", a.Checkout())
	api.POST("/checkout/buy-now", a.BuyNow())

	r.GET("/admin", a.AdminPage())
	r.GET("/admin/*path", a.AdminPage())
}
