package controllers

import (
	"net/http"
	"strings"

	"github.com/choudharyperfumes/storefront/dto"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/choudharyperfumes/storefront/utils"
	"github.com/gin-gonic/gin"
)

func (a *App) GetReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := a.Store.ListReviews(c.Request.Context(), strings.TrimSpace(c.Query("slug")))
		if err != nil {
			storeError(c, "GET /api/reviews", err, "", "Failed to fetch reviews")
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// AddReview is public. Reviews always start unverified.
func (a *App) AddReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateReviewDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Missing required fields")
			return
		}

		r := models.Review{
			ProductSlug:  strings.TrimSpace(body.ProductSlug),
			CustomerName: utils.NormalizeText(body.CustomerName),
			Rating:       body.Rating,
			Comment:      utils.NormalizeText(body.Comment),
			AvatarColor:  body.AvatarColor,
			Verified:     false,
		}
		if r.CustomerName == "" || r.Comment == "" || r.ProductSlug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		if r.AvatarColor == "" {
			r.AvatarColor = models.DefaultAvatarColor
		}

		if err := a.Store.CreateReview(c.Request.Context(), &r); err != nil {
			storeError(c, "POST /api/reviews", err, "", "Failed to submit review")
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func (a *App) DeleteReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Query("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Review ID is required"})
			return
		}
		if err := a.Store.DeleteReview(c.Request.Context(), id); err != nil {
			storeError(c, "DELETE /api/reviews", err, "Review not found", "Failed to delete review")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	}
}
