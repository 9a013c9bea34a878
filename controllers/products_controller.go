package controllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/choudharyperfumes/storefront/dto"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/choudharyperfumes/storefront/utils"
	"github.com/gin-gonic/gin"
)

// productFilter holds the optional query filters of GET /api/products.
type productFilter struct {
	category models.Category
	gender   models.Gender
	query    string
	featured *bool
	inStock  *bool
	sort     string
	limit    int
}

func parseProductFilter(c *gin.Context) productFilter {
	f := productFilter{
		category: models.Category(strings.ToLower(strings.TrimSpace(c.Query("category")))),
		gender:   models.Gender(strings.ToLower(strings.TrimSpace(c.Query("gender")))),
		query:    strings.ToLower(strings.TrimSpace(c.Query("q"))),
		sort:     strings.TrimSpace(c.Query("sort")),
		limit:    utils.ParseIntDefault(c.Query("limit"), 0),
	}
	if b, err := utils.ParseBoolQuery(c.Query("featured")); err == nil {
		f.featured = b
	}
	if b, err := utils.ParseBoolQuery(c.Query("inStock")); err == nil {
		f.inStock = b
	}
	return f
}

func (f productFilter) match(p models.Product) bool {
	if f.category != "" && p.Category != f.category {
		return false
	}
	if f.gender != "" && p.Gender != f.gender {
		return false
	}
	if f.featured != nil && p.Featured != *f.featured {
		return false
	}
	if f.inStock != nil && p.InStock != *f.inStock {
		return false
	}
	if f.query != "" &&
		!strings.Contains(strings.ToLower(p.Name), f.query) &&
		!strings.Contains(strings.ToLower(p.Brand), f.query) {
		return false
	}
	return true
}

func (f productFilter) apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}

	switch f.sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	// 0 or less means no limit
	if f.limit > 0 && len(out) > f.limit {
		out = out[:f.limit]
	}
	return out
}

func (a *App) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := a.Store.ListProducts(c.Request.Context())
		if err != nil {
			storeError(c, "GET /api/products", err, "", "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, parseProductFilter(c).apply(products))
	}
}

func (a *App) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.Store.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			storeError(c, "GET /api/products/:id", err, "Product not found", "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (a *App) GetProductBySlug() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.Store.GetProductBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			storeError(c, "GET /api/products/slug/:slug", err, "Product not found", "Failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func toVolumes(in []dto.VolumeDTO) []models.VolumeOption {
	out := make([]models.VolumeOption, 0, len(in))
	for _, v := range in {
		out = append(out, models.VolumeOption{Volume: strings.TrimSpace(v.Volume), Price: v.Price})
	}
	return out
}

func (a *App) AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Missing required fields")
			return
		}

		slug := utils.SlugFrom(body.Slug, body.Name)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug cannot be empty", "field": "slug"})
			return
		}

		p := models.Product{
			Name:        strings.TrimSpace(body.Name),
			Brand:       strings.TrimSpace(body.Brand),
			Slug:        slug,
			Category:    models.Category(body.Category),
			Gender:      models.GenderUnisex,
			Price:       body.Price,
			ImageUrl:    models.PlaceholderImage,
			Description: body.Description,
			InStock:     true,
			Volumes:     toVolumes(body.Volumes),
		}
		if body.Gender != "" {
			p.Gender = models.Gender(body.Gender)
		}
		if body.ImageUrl != "" {
			p.ImageUrl = body.ImageUrl
		}
		if body.InStock != nil {
			p.InStock = *body.InStock
		}
		if body.Featured != nil {
			p.Featured = *body.Featured
		}

		if err := a.Store.CreateProduct(c.Request.Context(), &p); err != nil {
			storeError(c, "POST /api/products", err, "Product not found", "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// UpdateProduct applies a partial update. Supplying name or slug re-derives
// the slug; supplying volumes replaces all of them.
func (a *App) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Invalid product fields")
			return
		}

		current, err := a.Store.GetProduct(ctx, c.Param("id"))
		if err != nil {
			storeError(c, "PUT /api/products/:id", err, "Product not found", "Failed to update product")
			return
		}
		p := *current
		oldImage := p.ImageUrl

		if body.Name != nil {
			p.Name = strings.TrimSpace(*body.Name)
		}
		if body.Slug != nil || body.Name != nil {
			var slug string
			if body.Slug != nil {
				slug = *body.Slug
			}
			p.Slug = utils.SlugFrom(slug, p.Name)
			if p.Slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "slug cannot be empty", "field": "slug"})
				return
			}
		}
		if body.Brand != nil {
			p.Brand = strings.TrimSpace(*body.Brand)
		}
		if body.Price != nil {
			p.Price = *body.Price
		}
		if body.Category != nil {
			p.Category = models.Category(*body.Category)
		}
		if body.Gender != nil {
			p.Gender = models.Gender(*body.Gender)
		}
		if body.ImageUrl != nil {
			p.ImageUrl = *body.ImageUrl
			if p.ImageUrl == "" {
				p.ImageUrl = models.PlaceholderImage
			}
		}
		if body.Description != nil {
			p.Description = *body.Description
		}
		if body.InStock != nil {
			p.InStock = *body.InStock
		}
		if body.Featured != nil {
			p.Featured = *body.Featured
		}
		replaceVolumes := body.Volumes != nil
		if replaceVolumes {
			p.Volumes = toVolumes(*body.Volumes)
		}

		if err := a.Store.UpdateProduct(ctx, &p, replaceVolumes); err != nil {
			storeError(c, "PUT /api/products/:id", err, "Product not found", "Failed to update product")
			return
		}
		if oldImage != p.ImageUrl {
			a.deleteObjects(ctx, oldImage)
		}
		c.JSON(http.StatusOK, p)
	}
}

func (a *App) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		p, err := a.Store.GetProduct(ctx, id)
		if err != nil {
			storeError(c, "DELETE /api/products/:id", err, "Product not found", "Failed to delete product")
			return
		}
		if err := a.Store.DeleteProduct(ctx, id); err != nil {
			storeError(c, "DELETE /api/products/:id", err, "Product not found", "Failed to delete product")
			return
		}
		a.deleteObjects(ctx, p.ImageUrl)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
