package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/choudharyperfumes/storefront/database"
	"github.com/choudharyperfumes/storefront/dto"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/choudharyperfumes/storefront/utils"
	"github.com/gin-gonic/gin"
)

// GetSettings returns one setting when ?key= is given, all of them otherwise.
func (a *App) GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		key := strings.TrimSpace(c.Query("key"))
		if key == "" {
			settings, err := a.Store.ListSettings(ctx)
			if err != nil {
				storeError(c, "GET /api/settings", err, "", "Failed to fetch settings")
				return
			}
			c.JSON(http.StatusOK, settings)
			return
		}

		if key == models.SettingWhatsAppNumber {
			c.JSON(http.StatusOK, gin.H{"key": key, "value": a.WhatsAppNumber(ctx)})
			return
		}

		s, err := a.Store.GetSetting(ctx, key)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
				return
			}
			storeError(c, "GET /api/settings", err, "Setting not found", "Failed to fetch setting")
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": s.Key, "value": s.Value})
	}
}

func (a *App) UpsertSetting() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpsertSettingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err, "Key and value are required")
			return
		}

		s := models.Setting{
			Key:   strings.TrimSpace(body.Key),
			Value: utils.NormalizeText(*body.Value),
		}
		if s.Key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Key and value are required"})
			return
		}

		if err := a.Store.UpsertSetting(c.Request.Context(), &s); err != nil {
			storeError(c, "PUT /api/settings", err, "", "Failed to update setting")
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
