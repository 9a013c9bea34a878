package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/choudharyperfumes/storefront/auth"
	"github.com/choudharyperfumes/storefront/cart"
	"github.com/choudharyperfumes/storefront/config"
	"github.com/choudharyperfumes/storefront/database"
	"github.com/choudharyperfumes/storefront/models"
	"github.com/choudharyperfumes/storefront/storage"
	"github.com/choudharyperfumes/storefront/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// App carries everything the handlers need. One App serves every request.
type App struct {
	Store     database.Store
	Bucket    storage.Bucket
	Sessions  *auth.Manager
	Carts     cart.Persister
	Validator *utils.ImageValidator
	Config    *config.Config

	now func() time.Time
}

func NewApp(cfg *config.Config, store database.Store, bucket storage.Bucket, sessions *auth.Manager, carts cart.Persister) *App {
	return &App{
		Store:     store,
		Bucket:    bucket,
		Sessions:  sessions,
		Carts:     carts,
		Validator: utils.NewImageValidator(cfg.MaxUploadBytes),
		Config:    cfg,
		now:       time.Now,
	}
}

// WhatsAppNumber is the one place the order number is read from: the
// whatsapp_number setting, or the configured fallback when it is unset.
func (a *App) WhatsAppNumber(ctx context.Context) string {
	s, err := a.Store.GetSetting(ctx, models.SettingWhatsAppNumber)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("read %s setting: %v", models.SettingWhatsAppNumber, err)
		}
		return a.Config.WhatsAppFallback
	}
	if v := strings.TrimSpace(s.Value); v != "" {
		return v
	}
	return a.Config.WhatsAppFallback
}

// bindError answers a failed ShouldBindJSON. Validation failures get msg, a
// body that is not JSON at all gets "Invalid request".
func bindError(c *gin.Context, err error, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": verrs.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
}

// storeError maps a database error onto the response. failMsg is what the
// client sees for anything that is not a known sentinel.
func storeError(c *gin.Context, route string, err error, notFoundMsg, failMsg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, database.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
	case errors.Is(err, database.ErrPartialWrite):
		log.Printf("%s: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Product was only partly saved; check its volumes",
			"code":  "partial_write",
		})
	default:
		log.Printf("%s: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	}
}

// deleteObjects drops uploaded images that are no longer referenced. Failures
// only get logged; the owning row is already gone or updated.
func (a *App) deleteObjects(ctx context.Context, urls ...string) {
	if a.Bucket == nil {
		return
	}
	if err := storage.DeleteURLs(ctx, a.Bucket, urls...); err != nil {
		log.Printf("delete stored images: %v", err)
	}
}
