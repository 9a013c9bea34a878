package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/choudharyperfumes/storefront/banner"
	"github.com/choudharyperfumes/storefront/dto"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/gin-gonic/gin"
)

const bannerImagesRequired = "Both mobile and desktop banner images are required"

// GetBanners is the admin list: every banner, active or not.
func (a *App) GetBanners() gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := a.Store.ListBanners(c.Request.Context())
		if err != nil {
			storeError(c, "GET /api/banners", err, "", "Failed to fetch banners")
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// GetActiveBanners returns the homepage rotation and the slide due now.
func (a *App) GetActiveBanners() gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := a.Store.ListBanners(c.Request.Context())
		if err != nil {
			storeError(c, "GET /api/banners/active", err, "", "Failed to fetch banners")
			return
		}

		// slides are counted from midnight UTC
		now := a.now().UTC()
		epoch := now.Truncate(24 * time.Hour)
		r := banner.NewRotation(banners, a.Config.FallbackBannerImage, a.Config.BannerRotateEvery, epoch)

		c.JSON(http.StatusOK, gin.H{
			"slides":        r.Slides(),
			"current":       r.At(now),
			"rotateEveryMs": r.Interval().Milliseconds(),
			"fallback":      r.Fallback(),
		})
	}
}

func (a *App) AddBanner() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateBannerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Invalid banner fields")
			return
		}
		if strings.TrimSpace(body.MobileImageUrl) == "" || strings.TrimSpace(body.DesktopImageUrl) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": bannerImagesRequired})
			return
		}

		b := models.Banner{
			Title:           body.Title,
			Subtitle:        body.Subtitle,
			Link:            body.Link,
			MobileImageUrl:  body.MobileImageUrl,
			DesktopImageUrl: body.DesktopImageUrl,
			IsActive:        true,
		}
		if body.IsActive != nil {
			b.IsActive = *body.IsActive
		}
		if body.SortOrder != nil {
			b.SortOrder = *body.SortOrder
		}

		if err := a.Store.CreateBanner(c.Request.Context(), &b); err != nil {
			storeError(c, "POST /api/banners", err, "Banner not found", "Failed to create banner")
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

func (a *App) UpdateBanner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.UpdateBannerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Invalid banner fields")
			return
		}

		current, err := a.Store.GetBanner(ctx, c.Param("id"))
		if err != nil {
			storeError(c, "PUT /api/banners/:id", err, "Banner not found", "Failed to update banner")
			return
		}
		b := *current
		replaced := []string{}

		if body.Title != nil {
			b.Title = *body.Title
		}
		if body.Subtitle != nil {
			b.Subtitle = *body.Subtitle
		}
		if body.Link != nil {
			b.Link = *body.Link
		}
		if body.MobileImageUrl != nil {
			if *body.MobileImageUrl != b.MobileImageUrl {
				replaced = append(replaced, b.MobileImageUrl)
			}
			b.MobileImageUrl = *body.MobileImageUrl
		}
		if body.DesktopImageUrl != nil {
			if *body.DesktopImageUrl != b.DesktopImageUrl {
				replaced = append(replaced, b.DesktopImageUrl)
			}
			b.DesktopImageUrl = *body.DesktopImageUrl
		}
		if strings.TrimSpace(b.MobileImageUrl) == "" || strings.TrimSpace(b.DesktopImageUrl) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": bannerImagesRequired})
			return
		}
		if body.IsActive != nil {
			b.IsActive = *body.IsActive
		}
		if body.SortOrder != nil {
			b.SortOrder = *body.SortOrder
		}

		if err := a.Store.UpdateBanner(ctx, &b); err != nil {
			storeError(c, "PUT /api/banners/:id", err, "Banner not found", "Failed to update banner")
			return
		}
		a.deleteObjects(ctx, replaced...)
		c.JSON(http.StatusOK, b)
	}
}

func (a *App) DeleteBanner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		b, err := a.Store.GetBanner(ctx, id)
		if err != nil {
			storeError(c, "DELETE /api/banners/:id", err, "Banner not found", "Failed to delete banner")
			return
		}
		if err := a.Store.DeleteBanner(ctx, id); err != nil {
			storeError(c, "DELETE /api/banners/:id", err, "Banner not found", "Failed to delete banner")
			return
		}
		a.deleteObjects(ctx, b.MobileImageUrl, b.DesktopImageUrl)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
