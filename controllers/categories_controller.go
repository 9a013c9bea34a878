package controllers

import (
	"net/http"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/gin-gonic/gin"
)

type categoryView struct {
	Slug         models.Category `json:"slug"`
	Name         string          `json:"name"`
	ProductCount int             `json:"productCount"`
	InStockCount int             `json:"inStockCount"`
}

// GetCategories lists the fixed shop categories with how many products each
// holds, for the shop page tabs.
func (a *App) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := a.Store.ListProducts(c.Request.Context())
		if err != nil {
			storeError(c, "GET /api/categories", err, "", "Failed to fetch categories")
			return
		}

		items := make([]categoryView, 0, len(models.Categories))
		for _, cat := range models.Categories {
			v := categoryView{Slug: cat, Name: cat.Label()}
			for _, p := range products {
				if p.Category != cat {
					continue
				}
				v.ProductCount++
				if p.InStock {
					v.InStockCount++
				}
			}
			items = append(items, v)
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(products)})
	}
}
